package ports

// Package ports defines interfaces (hexagonal ports) for the dashboard client.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	"github.com/target/dashboard-client/internal/domain/session"
)

// SessionStore is the session context: the single owner of the locally
// persisted identity. An empty user ID with a nil error means no session.
type SessionStore interface {
	GetUserID(ctx context.Context) (string, error)
	SetUserID(ctx context.Context, userID string) error
	// Identity returns the full persisted entry including the last known image path.
	Identity(ctx context.Context) (session.Identity, error)
	SetImagePath(ctx context.Context, imagePath string) error
	// Cookies returns the persisted backend session cookies.
	Cookies(ctx context.Context) ([]session.Cookie, error)
	// SetCookies replaces the persisted cookies; an empty slice removes them.
	SetCookies(ctx context.Context, cookies []session.Cookie) error
	// Clear removes every persisted value, cookies included.
	Clear(ctx context.Context) error
}

// Router performs route changes for a view.
type Router interface {
	Navigate(nav session.Navigation)
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(nav session.Navigation)

// Navigate implements the Router interface.
func (f RouterFunc) Navigate(nav session.Navigation) {
	if f != nil {
		f(nav)
	}
}
