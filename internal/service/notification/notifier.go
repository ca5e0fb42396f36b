package notification

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/target/dashboard-client/internal/clock"
	"github.com/target/dashboard-client/internal/domain/session"
)

// DefaultTimeout is how long a notification stays visible without an explicit close.
const DefaultTimeout = 5 * time.Second

// Sink receives every notification state transition (show, close, expiry).
type Sink interface {
	Render(n session.Notification)
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(n session.Notification)

// Render implements the Sink interface.
func (f SinkFunc) Render(n session.Notification) {
	if f != nil {
		f(n)
	}
}

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink Sink
}

// Options configures a Notifier.
type Options struct {
	Clock   clock.Clock
	Timeout time.Duration
	Logger  *slog.Logger
	Sinks   []SinkRegistration
	// NewID returns the identifier assigned to each shown notification.
	NewID func() string
}

// Notifier is the transient notification of one view.
// At most one notification is visible; Show supersedes the previous one and
// restarts the auto-hide timer.
type Notifier struct {
	clock   clock.Clock
	timeout time.Duration
	logger  *slog.Logger
	sinks   []SinkRegistration
	newID   func() string

	mu         sync.Mutex
	state      session.Notification
	generation uint64
	timer      clock.Timer
	stopped    bool
}

// New constructs a hidden Notifier.
func New(opts Options) *Notifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "notifier")
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		if entry.Name == "" {
			entry.Name = "sink"
		}
		sinks = append(sinks, entry)
	}

	return &Notifier{
		clock:   clk,
		timeout: timeout,
		logger:  logger,
		sinks:   sinks,
		newID:   newID,
		state:   session.Notification{Anchor: session.AnchorTopCenter},
	}
}

// Show makes message visible, replacing any current notification.
// After Stop it only returns the current (hidden) state.
func (n *Notifier) Show(message string, severity session.Severity, anchor session.Anchor) session.Notification {
	n.mu.Lock()
	if n.stopped {
		state := n.state
		n.mu.Unlock()
		n.logger.Debug("notification dropped after teardown", "message", message)
		return state
	}

	if n.timer != nil {
		n.timer.Stop()
	}
	n.generation++
	gen := n.generation
	n.state = session.Notification{
		ID:       n.newID(),
		Visible:  true,
		Message:  message,
		Severity: severity,
		Anchor:   anchor.OrDefault(),
		ShownAt:  n.clock.Now(),
	}
	n.timer = n.clock.AfterFunc(n.timeout, func() { n.expire(gen) })
	state := n.state
	n.mu.Unlock()

	n.render(state)
	return state
}

// Close hides the current notification immediately.
func (n *Notifier) Close() {
	n.mu.Lock()
	if !n.state.Visible {
		n.mu.Unlock()
		return
	}
	n.hideLocked()
	state := n.state
	n.mu.Unlock()

	n.render(state)
}

// State returns a snapshot of the current notification.
func (n *Notifier) State() session.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Stop cancels the auto-hide timer and hides the notification without
// informing sinks. Further Show calls are ignored.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return
	}
	n.stopped = true
	n.hideLocked()
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.generation || !n.state.Visible || n.stopped {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	n.state.Visible = false
	state := n.state
	n.mu.Unlock()

	n.render(state)
}

func (n *Notifier) hideLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.generation++
	n.state.Visible = false
}

func (n *Notifier) render(state session.Notification) {
	for _, entry := range n.sinks {
		entry.Sink.Render(state)
	}
	n.logger.Debug("notification state changed",
		"id", state.ID,
		"visible", state.Visible,
		"severity", state.Severity,
		"sinks", len(n.sinks),
	)
}
