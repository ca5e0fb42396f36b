package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/target/dashboard-client/internal/clock"
	"github.com/target/dashboard-client/internal/domain/session"
	sessionmocks "github.com/target/dashboard-client/internal/mocks/session"
	"github.com/target/dashboard-client/internal/service/notification"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu     sync.Mutex
	states []session.Notification
}

func (r *recordingSink) Render(n session.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, n)
}

// shown returns the notifications that became visible.
func (r *recordingSink) shown() []session.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []session.Notification
	for _, s := range r.states {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}

type countedMetric struct {
	name string
	tags map[string]string
}

type recordingMetrics struct {
	mu      sync.Mutex
	counts  []countedMetric
	timings []countedMetric
}

func (m *recordingMetrics) Count(name string, _ int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = append(m.counts, countedMetric{name: name, tags: tags})
}

func (m *recordingMetrics) Timing(name string, _ time.Duration, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings = append(m.timings, countedMetric{name: name, tags: tags})
}

func (m *recordingMetrics) submits() []countedMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]countedMetric, len(m.counts))
	copy(out, m.counts)
	return out
}

type viewFixture struct {
	view   *View
	clock  *clock.Fake
	router *sessionmocks.RecordingRouter
	sink   *recordingSink
}

func newViewFixture(t *testing.T, anchor session.Anchor) *viewFixture {
	t.Helper()
	clk := clock.NewFake(testEpoch)
	router := &sessionmocks.RecordingRouter{}
	sink := &recordingSink{}
	v, err := NewView(ViewOptions{
		Name:   t.Name(),
		Anchor: anchor,
		Router: router,
		Clock:  clk,
		Sinks:  []notification.SinkRegistration{{Name: "test", Sink: sink}},
	})
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return &viewFixture{view: v, clock: clk, router: router, sink: sink}
}
