package navigation

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/target/dashboard-client/internal/clock"
	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/ports"
)

// DefaultDelay gives a notification time to render before the view is left.
const DefaultDelay = 1500 * time.Millisecond

// ErrRouterRequired indicates a navigator cannot be constructed without a router.
var ErrRouterRequired = errors.New("navigator router is required")

// Options configures a Navigator.
type Options struct {
	Router ports.Router
	Clock  clock.Clock
	Delay  time.Duration
	Logger *slog.Logger
}

// Navigator schedules one-shot delayed route changes for one view.
// Every pending navigation is cancelled by Stop.
type Navigator struct {
	router ports.Router
	clock  clock.Clock
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	seq     uint64
	pending map[uint64]clock.Timer
	stopped bool
}

// New constructs a Navigator.
func New(opts Options) (*Navigator, error) {
	if opts.Router == nil {
		return nil, ErrRouterRequired
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "navigator")
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	return &Navigator{
		router:  opts.Router,
		clock:   clk,
		delay:   delay,
		logger:  logger,
		pending: make(map[uint64]clock.Timer),
	}, nil
}

// Delay returns the default navigation delay.
func (n *Navigator) Delay() time.Duration { return n.delay }

// Schedule navigates to nav after the default delay.
func (n *Navigator) Schedule(nav session.Navigation) *Handle {
	return n.ScheduleAfter(nav, n.delay)
}

// ScheduleAfter navigates to nav once, after delay.
// After Stop it returns an inert handle.
func (n *Navigator) ScheduleAfter(nav session.Navigation, delay time.Duration) *Handle {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.stopped {
		n.logger.Debug("navigation dropped after teardown", "target", nav.String())
		return &Handle{}
	}

	n.seq++
	id := n.seq
	n.pending[id] = n.clock.AfterFunc(delay, func() { n.fire(id, nav) })
	return &Handle{navigator: n, id: id, Target: nav}
}

// Pending returns the number of navigations not yet fired or cancelled.
func (n *Navigator) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// Stop cancels every pending navigation. It is safe to call more than once.
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	for id, timer := range n.pending {
		timer.Stop()
		delete(n.pending, id)
	}
}

func (n *Navigator) fire(id uint64, nav session.Navigation) {
	n.mu.Lock()
	if _, ok := n.pending[id]; !ok || n.stopped {
		n.mu.Unlock()
		return
	}
	delete(n.pending, id)
	n.mu.Unlock()

	n.logger.Debug("navigating", "target", nav.String())
	n.router.Navigate(nav)
}

func (n *Navigator) cancel(id uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	timer, ok := n.pending[id]
	if !ok {
		return false
	}
	delete(n.pending, id)
	return timer.Stop()
}

// Handle refers to one scheduled navigation.
type Handle struct {
	navigator *Navigator
	id        uint64
	Target    session.Navigation
}

// Cancel prevents the navigation from firing. It reports whether it was still pending.
func (h *Handle) Cancel() bool {
	if h == nil || h.navigator == nil {
		return false
	}
	return h.navigator.cancel(h.id)
}
