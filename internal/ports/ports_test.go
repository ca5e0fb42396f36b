package ports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/mocks"
	sessionmocks "github.com/target/dashboard-client/internal/mocks/session"
	"github.com/target/dashboard-client/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.SessionStore = (*sessionmocks.MemorySessionStore)(nil)
	var _ ports.AuthBackend = (*sessionmocks.FakeBackend)(nil)
	var _ ports.Router = (*sessionmocks.RecordingRouter)(nil)
	var _ ports.AuthBackend = (*mocks.MockAuthBackend)(nil)
	var _ ports.Router = (*mocks.MockRouter)(nil)
}

func TestRouterFunc(t *testing.T) {
	var got session.Navigation
	r := ports.RouterFunc(func(nav session.Navigation) { got = nav })
	r.Navigate(session.Navigation{Route: session.RouteHome})
	assert.Equal(t, session.RouteHome, got.Route)

	var nilFunc ports.RouterFunc
	assert.NotPanics(t, func() { nilFunc.Navigate(session.Navigation{Reload: true}) })
}
