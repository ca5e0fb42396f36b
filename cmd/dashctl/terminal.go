package main

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/ports"
)

var _ ports.Router = (*terminalRouter)(nil)

// terminalRouter hands navigations to the waiting command.
type terminalRouter struct {
	ch chan session.Navigation
}

func newTerminalRouter() *terminalRouter {
	return &terminalRouter{ch: make(chan session.Navigation, 1)}
}

func (r *terminalRouter) Navigate(nav session.Navigation) {
	select {
	case r.ch <- nav:
	default:
	}
}

// await blocks until a navigation fires, ctx ends or timeout passes.
func (r *terminalRouter) await(ctx context.Context, timeout time.Duration) (session.Navigation, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case nav := <-r.ch:
		return nav, true
	case <-ctx.Done():
	case <-timer.C:
	}
	return session.Navigation{}, false
}

// terminalSink prints visible notifications as one line each.
type terminalSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *terminalSink) Render(n session.Notification) {
	if !n.Visible {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = writef(s.w, "[%s] %s\n", n.Severity, n.Message)
}
