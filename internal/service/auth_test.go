package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/dashboard-client/internal/clock"
	"github.com/target/dashboard-client/internal/domain/session"
	apperrors "github.com/target/dashboard-client/internal/errors"
	"github.com/target/dashboard-client/internal/mocks"
	sessionmocks "github.com/target/dashboard-client/internal/mocks/session"
	"github.com/target/dashboard-client/internal/ports"
	"github.com/target/dashboard-client/internal/service/notification"
	"github.com/target/dashboard-client/internal/validation"
)

type authFixture struct {
	*viewFixture
	backend *sessionmocks.FakeBackend
	store   *sessionmocks.MemorySessionStore
	metrics *recordingMetrics
	svc     *AuthService
}

func newAuthFixture(t *testing.T, userID string, anchor session.Anchor) *authFixture {
	t.Helper()
	vf := newViewFixture(t, anchor)
	backend := sessionmocks.NewFakeBackend()
	store := sessionmocks.NewMemorySessionStore(userID)
	metrics := &recordingMetrics{}
	svc := NewAuthService(AuthServiceOptions{
		Backend:  backend,
		Sessions: store,
		Metrics:  metrics,
		Clock:    vf.clock,
	})
	return &authFixture{viewFixture: vf, backend: backend, store: store, metrics: metrics, svc: svc}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.LoginFunc = func(_ context.Context, in ports.Credentials) (ports.LoginResult, error) {
		assert.Equal(t, "alice", in.Username)
		assert.Equal(t, "secret", in.Password)
		return ports.LoginResult{Message: "Welcome back", UserID: "42"}, nil
	}

	out := f.svc.Login(context.Background(), f.view, ports.Credentials{Username: "alice", Password: "secret"})

	require.True(t, out.OK())
	assert.Equal(t, "Welcome back", out.Message)
	assert.Equal(t, session.SeveritySuccess, out.Severity)
	require.NotNil(t, out.Navigation)
	assert.Equal(t, session.RouteHome, out.Navigation.Route)

	state := f.view.Notifier.State()
	assert.True(t, state.Visible)
	assert.Equal(t, "Welcome back", state.Message)

	id, err := f.store.GetUserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	f.clock.Advance(1499 * time.Millisecond)
	assert.Empty(t, f.router.Navigations())
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, []session.Navigation{{Route: session.RouteHome}}, f.router.Navigations())

	f.clock.Advance(time.Minute)
	assert.Len(t, f.router.Navigations(), 1, "navigation fires once")
}

func TestAuthService_Login_DefaultMessageWithoutUserID(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.LoginFunc = func(context.Context, ports.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{}, nil
	}

	out := f.svc.Login(context.Background(), f.view, ports.Credentials{Username: "a", Password: "b"})

	assert.Equal(t, MessageLoginSucceeded, out.Message)
	id, err := f.store.GetUserID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestAuthService_Login_ServerError(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.LoginFunc = func(context.Context, ports.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{}, apperrors.Server(401, "Invalid credentials")
	}

	out := f.svc.Login(context.Background(), f.view, ports.Credentials{Username: "a", Password: "b"})

	assert.False(t, out.OK())
	assert.True(t, apperrors.IsServer(out.Err))
	assert.Equal(t, "Invalid credentials", out.Message)
	assert.Equal(t, session.SeverityError, out.Severity)
	assert.Nil(t, out.Navigation)

	f.clock.Advance(10 * time.Second)
	assert.Empty(t, f.router.Navigations())

	submits := f.metrics.submits()
	require.Len(t, submits, 1)
	assert.Equal(t, ActionLogin, submits[0].tags["action"])
	assert.Equal(t, "error", submits[0].tags["result"])
}

func TestAuthService_Login_NetworkError(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.LoginFunc = func(context.Context, ports.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{}, apperrors.Network(errors.New("dial tcp: connection refused"), "")
	}

	out := f.svc.Login(context.Background(), f.view, ports.Credentials{Username: "a", Password: "b"})

	assert.True(t, apperrors.IsNetwork(out.Err))
	assert.Equal(t, MessageNetworkFailed, out.Message)
	assert.Equal(t, MessageNetworkFailed, f.view.Notifier.State().Message)
}

func TestAuthService_Login_ServerErrorWithoutMessage(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.LoginFunc = func(context.Context, ports.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{}, apperrors.Server(500, "")
	}

	out := f.svc.Login(context.Background(), f.view, ports.Credentials{})
	assert.Equal(t, MessageRequestFailed, out.Message)
}

func TestAuthService_NotificationAutoHides(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.LoginFunc = func(context.Context, ports.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{}, apperrors.Server(401, "nope")
	}

	f.svc.Login(context.Background(), f.view, ports.Credentials{})

	f.clock.Advance(4999 * time.Millisecond)
	assert.True(t, f.view.Notifier.State().Visible)
	f.clock.Advance(time.Millisecond)
	assert.False(t, f.view.Notifier.State().Visible)
}

func TestAuthService_SecondSubmissionRestartsHideTimer(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.LoginFunc = func(context.Context, ports.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{}, apperrors.Server(401, "nope")
	}

	f.svc.Login(context.Background(), f.view, ports.Credentials{})
	f.clock.Advance(3 * time.Second)
	f.svc.Login(context.Background(), f.view, ports.Credentials{})

	f.clock.Advance(4 * time.Second)
	assert.True(t, f.view.Notifier.State().Visible, "timer restarted by second show")
	f.clock.Advance(time.Second)
	assert.False(t, f.view.Notifier.State().Visible)
	assert.Len(t, f.sink.shown(), 2)
}

func TestAuthService_Register_InvalidEmailMakesNoRequest(t *testing.T) {
	for _, email := range []string{"foo@bar", "foo.bar", "", "a b@c.d", "a@b@c.d"} {
		t.Run(email, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			backend := mocks.NewMockAuthBackend(ctrl)
			vf := newViewFixture(t, session.AnchorTopCenter)
			svc := NewAuthService(AuthServiceOptions{
				Backend:  backend,
				Sessions: sessionmocks.NewMemorySessionStore(""),
				Clock:    vf.clock,
			})

			out := svc.Register(context.Background(), vf.view, ports.Registration{
				Username: "bob",
				Email:    email,
				Password: "pw",
			})

			assert.True(t, apperrors.IsValidation(out.Err))
			assert.Equal(t, "email", apperrors.GetField(out.Err))
			assert.Equal(t, validation.InvalidEmailMessage, out.Message)
			assert.Equal(t, session.SeverityError, vf.view.Notifier.State().Severity)
			assert.Nil(t, out.Navigation)
		})
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)

	out := f.svc.Register(context.Background(), f.view, ports.Registration{
		Email:    "bob@example.com",
		Password: "pw",
	})

	assert.True(t, apperrors.IsValidation(out.Err))
	assert.Equal(t, "username", apperrors.GetField(out.Err))
	assert.Equal(t, "Username is required.", out.Message)
	assert.Zero(t, f.backend.TotalCalls())
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)

	out := f.svc.Register(context.Background(), f.view, ports.Registration{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "pw",
	})

	require.True(t, out.OK())
	assert.Equal(t, "User registered successfully", out.Message)
	assert.Equal(t, 1, f.backend.Calls("Signup"))

	f.clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, []session.Navigation{{Route: session.RouteLogin}}, f.router.Navigations())
}

func TestAuthService_Register_ServerError(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.SignupFunc = func(context.Context, ports.Registration) (string, error) {
		return "", apperrors.Server(409, "Username already taken")
	}

	out := f.svc.Register(context.Background(), f.view, ports.Registration{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "pw",
	})

	assert.Equal(t, "Username already taken", out.Message)
	f.clock.Advance(2 * time.Second)
	assert.Empty(t, f.router.Navigations())
}

func TestAuthService_Register_NoResponse(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)
	f.backend.SignupFunc = func(context.Context, ports.Registration) (string, error) {
		return "", apperrors.Network(errors.New("EOF"), "")
	}

	out := f.svc.Register(context.Background(), f.view, ports.Registration{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "pw",
	})

	assert.True(t, apperrors.IsNetwork(out.Err))
	assert.Equal(t, MessageNetworkFailed, out.Message)
	assert.Len(t, f.sink.shown(), 1)
}

func TestAuthService_UploadAvatar_Success(t *testing.T) {
	f := newAuthFixture(t, "42", session.AnchorTopRight)
	f.backend.UploadProfileFunc = func(_ context.Context, in ports.AvatarUpload) (ports.UploadResult, error) {
		assert.Equal(t, "42", in.UserID, "falls back to the session identifier")
		assert.Equal(t, "me.png", in.FileName)
		return ports.UploadResult{Message: "Image uploaded", ImagePath: "/uploads/me.png"}, nil
	}

	out := f.svc.UploadAvatar(context.Background(), f.view, ports.AvatarUpload{
		FileName:    "me.png",
		ContentType: "image/png",
		Content:     bytes.NewReader([]byte("png")),
	})

	require.True(t, out.OK())
	assert.Equal(t, "Image uploaded", out.Message)
	assert.Equal(t, session.AnchorTopRight, f.view.Notifier.State().Anchor)

	identity, err := f.store.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/uploads/me.png", identity.ImagePath)

	f.clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, []session.Navigation{{Reload: true}}, f.router.Navigations())
}

func TestAuthService_UploadAvatar_FailureKeepsAvatar(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "server message", err: apperrors.Server(400, "File too large"), message: "File too large"},
		{name: "no server message", err: apperrors.Server(400, ""), message: MessageInvalidAvatar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, "42", session.AnchorTopRight)
			require.NoError(t, f.store.SetImagePath(context.Background(), "/uploads/old.png"))
			f.backend.UploadProfileFunc = func(context.Context, ports.AvatarUpload) (ports.UploadResult, error) {
				return ports.UploadResult{}, tt.err
			}

			out := f.svc.UploadAvatar(context.Background(), f.view, ports.AvatarUpload{FileName: "x.gif"})

			assert.Equal(t, tt.message, out.Message)
			assert.Nil(t, out.Navigation)
			identity, err := f.store.Identity(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "/uploads/old.png", identity.ImagePath)

			f.clock.Advance(2 * time.Second)
			assert.Empty(t, f.router.Navigations())
		})
	}
}

func TestAuthService_UploadAvatar_WithoutSessionSkipsRequest(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		storeErr error
		code     apperrors.ErrorCode
	}{
		{name: "store unreadable", userID: "42", storeErr: errors.New("disk gone"), code: apperrors.ErrCodeInternal},
		{name: "signed out", userID: "", code: apperrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, tt.userID, session.AnchorTopRight)
			f.store.Err = tt.storeErr

			out := f.svc.UploadAvatar(context.Background(), f.view, ports.AvatarUpload{
				FileName:    "me.png",
				ContentType: "image/png",
				Content:     bytes.NewReader([]byte("png")),
			})

			assert.Equal(t, tt.code, apperrors.GetCode(out.Err))
			assert.Equal(t, MessageSessionUnavailable, out.Message)
			assert.Equal(t, session.SeverityError, out.Severity)
			assert.Nil(t, out.Navigation)
			assert.Zero(t, f.backend.Calls("UploadProfile"))
			assert.Len(t, f.sink.shown(), 1)
		})
	}
}

func TestAuthService_UploadAvatar_PolicyRejectsLocally(t *testing.T) {
	vf := newViewFixture(t, session.AnchorTopRight)
	backend := sessionmocks.NewFakeBackend()
	svc := NewAuthService(AuthServiceOptions{
		Backend:  backend,
		Sessions: sessionmocks.NewMemorySessionStore("42"),
		Clock:    vf.clock,
		AvatarPolicy: AvatarPolicy{
			MaxBytes:     800 * 1024,
			AllowedTypes: []string{"image/jpeg", "image/png"},
		},
	})

	out := svc.UploadAvatar(context.Background(), vf.view, ports.AvatarUpload{FileName: "a.gif", ContentType: "image/gif"})
	assert.True(t, apperrors.IsValidation(out.Err))
	assert.Equal(t, MessageInvalidAvatar, out.Message)

	out = svc.UploadAvatar(context.Background(), vf.view, ports.AvatarUpload{FileName: "a.png", ContentType: "IMAGE/PNG", Size: 900 * 1024})
	assert.True(t, apperrors.IsValidation(out.Err))
	assert.Contains(t, out.Message, "at most")

	assert.Zero(t, backend.TotalCalls())

	out = svc.UploadAvatar(context.Background(), vf.view, ports.AvatarUpload{FileName: "a.png", ContentType: "image/png", Size: 1024})
	assert.True(t, out.OK())
}

func TestAuthService_Logout_Success(t *testing.T) {
	f := newAuthFixture(t, "42", session.AnchorTopRight)
	f.backend.SignoutFunc = func(ctx context.Context) (string, error) {
		id, err := f.store.GetUserID(ctx)
		require.NoError(t, err)
		assert.Empty(t, id, "session cleared before signout request")
		return "Logged out successfully", nil
	}

	out := f.svc.Logout(context.Background(), f.view)

	require.True(t, out.OK())
	assert.Equal(t, "Logged out successfully", out.Message)
	assert.Equal(t, 1, f.store.Clears())

	f.clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, []session.Navigation{{Route: session.RouteLogin}}, f.router.Navigations())
}

func TestAuthService_Logout_SignoutFailureStillNavigates(t *testing.T) {
	f := newAuthFixture(t, "42", session.AnchorTopRight)
	f.backend.SignoutFunc = func(context.Context) (string, error) {
		return "", apperrors.Network(errors.New("connection reset"), "")
	}

	out := f.svc.Logout(context.Background(), f.view)

	assert.False(t, out.OK())
	assert.Equal(t, MessageNetworkFailed, out.Message)
	assert.Equal(t, session.SeverityError, f.view.Notifier.State().Severity)
	require.NotNil(t, out.Navigation)

	id, err := f.store.GetUserID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)

	f.clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, []session.Navigation{{Route: session.RouteLogin}}, f.router.Navigations())
}

func TestAuthService_Logout_ClearFailureStillSignsOut(t *testing.T) {
	f := newAuthFixture(t, "42", session.AnchorTopRight)
	f.store.Err = errors.New("locked")

	out := f.svc.Logout(context.Background(), f.view)

	assert.True(t, out.OK())
	assert.Equal(t, 1, f.backend.Calls("Signout"))
	f.clock.Advance(1500 * time.Millisecond)
	assert.Len(t, f.router.Navigations(), 1)
}

func TestAuthService_NotificationPrecedesNavigation(t *testing.T) {
	ctrl := gomock.NewController(t)
	clk := clock.NewFake(testEpoch)

	var (
		mu     sync.Mutex
		events []string
	)
	record := func(e string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}

	router := mocks.NewMockRouter(ctrl)
	router.EXPECT().
		Navigate(session.Navigation{Route: session.RouteHome}).
		Do(func(session.Navigation) { record("navigate") }).
		Times(1)

	v, err := NewView(ViewOptions{
		Name:   "login",
		Router: router,
		Clock:  clk,
		Sinks: []notification.SinkRegistration{{
			Name: "events",
			Sink: notification.SinkFunc(func(n session.Notification) {
				if n.Visible {
					record("show")
				}
			}),
		}},
	})
	require.NoError(t, err)
	defer v.Close()

	svc := NewAuthService(AuthServiceOptions{
		Backend:  sessionmocks.NewFakeBackend(),
		Sessions: sessionmocks.NewMemorySessionStore(""),
		Clock:    clk,
	})
	svc.Login(context.Background(), v, ports.Credentials{Username: "a", Password: "b"})
	clk.Advance(1500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"show", "navigate"}, events)
}

func TestAuthService_TeardownCancelsNavigation(t *testing.T) {
	f := newAuthFixture(t, "", session.AnchorTopCenter)

	f.svc.Login(context.Background(), f.view, ports.Credentials{Username: "a", Password: "b"})
	f.clock.Advance(time.Second)
	f.view.Close()
	f.clock.Advance(time.Second)

	assert.Empty(t, f.router.Navigations())
	assert.Zero(t, f.clock.Pending())
}

func TestAuthService_OneNotificationPerSubmission(t *testing.T) {
	f := newAuthFixture(t, "42", session.AnchorTopRight)
	ctx := context.Background()

	f.svc.Login(ctx, f.view, ports.Credentials{Username: "a", Password: "b"})
	f.svc.Register(ctx, f.view, ports.Registration{Email: "bad"})
	f.svc.UploadAvatar(ctx, f.view, ports.AvatarUpload{FileName: "a.png"})
	f.svc.Logout(ctx, f.view)

	assert.Len(t, f.sink.shown(), 4)
	assert.Len(t, f.metrics.submits(), 4)
}
