package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/target/dashboard-client/internal/clock"
	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/ports"
	"github.com/target/dashboard-client/internal/service/navigation"
	"github.com/target/dashboard-client/internal/service/notification"
)

// ViewOptions configures a View.
type ViewOptions struct {
	Name   string
	Anchor session.Anchor
	Router ports.Router
	Clock  clock.Clock
	Logger *slog.Logger
	Sinks  []notification.SinkRegistration

	NotificationTimeout time.Duration
	NavigationDelay     time.Duration
}

// View is one mounted component instance (login form, user dropdown, ...).
// It owns exactly one notification and its pending navigations.
type View struct {
	Name      string
	Anchor    session.Anchor
	Notifier  *notification.Notifier
	Navigator *navigation.Navigator

	closeOnce sync.Once
}

// NewView mounts a view. Close must be called when the view is torn down.
func NewView(opts ViewOptions) (*View, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.Name
	if name == "" {
		name = "view"
	}
	logger = logger.With("view", name)

	nav, err := navigation.New(navigation.Options{
		Router: opts.Router,
		Clock:  opts.Clock,
		Delay:  opts.NavigationDelay,
		Logger: logger.With("component", "navigator"),
	})
	if err != nil {
		return nil, err
	}

	return &View{
		Name:   name,
		Anchor: opts.Anchor.OrDefault(),
		Notifier: notification.New(notification.Options{
			Clock:   opts.Clock,
			Timeout: opts.NotificationTimeout,
			Logger:  logger.With("component", "notifier"),
			Sinks:   opts.Sinks,
		}),
		Navigator: nav,
	}, nil
}

// Notify shows message at the view's anchor.
func (v *View) Notify(message string, severity session.Severity) session.Notification {
	return v.Notifier.Show(message, severity, v.Anchor)
}

// Close cancels the notification timer and every pending navigation.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		v.Notifier.Stop()
		v.Navigator.Stop()
	})
}
