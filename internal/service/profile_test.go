package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/dashboard-client/internal/domain/session"
	apperrors "github.com/target/dashboard-client/internal/errors"
	"github.com/target/dashboard-client/internal/mocks"
	sessionmocks "github.com/target/dashboard-client/internal/mocks/session"
)

const testOrigin = "http://localhost:8080"

func strPtr(s string) *string { return &s }

func TestProfileService_Load_NoSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockAuthBackend(ctrl)
	// No GetProfile expectation: any call fails the test.

	svc := NewProfileService(ProfileServiceOptions{
		Backend:  backend,
		Sessions: sessionmocks.NewMemorySessionStore(""),
		Origin:   testOrigin,
	})

	res := svc.Load(context.Background())

	assert.False(t, res.OK())
	assert.True(t, apperrors.IsNotFound(res.Err))
	assert.Equal(t, session.DefaultAvatarPath, res.AvatarURL)
	assert.Empty(t, res.Username)
}

func TestProfileService_Load_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockAuthBackend(ctrl)
	backend.EXPECT().
		GetProfile(gomock.Any(), "42").
		Return(session.Profile{Username: "alice", ImagePath: strPtr("/uploads/alice.png")}, nil)

	svc := NewProfileService(ProfileServiceOptions{
		Backend:  backend,
		Sessions: sessionmocks.NewMemorySessionStore("42"),
		Origin:   testOrigin,
	})

	res := svc.Load(context.Background())

	require.True(t, res.OK())
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "http://localhost:8080/uploads/alice.png", res.AvatarURL)
}

func TestProfileService_Load_NoImageKeepsDefault(t *testing.T) {
	backend := sessionmocks.NewFakeBackend()
	svc := NewProfileService(ProfileServiceOptions{
		Backend:       backend,
		Sessions:      sessionmocks.NewMemorySessionStore("7"),
		Origin:        testOrigin,
		DefaultAvatar: "/images/avatars/2.png",
	})

	res := svc.Load(context.Background())

	require.True(t, res.OK())
	assert.Equal(t, "user-7", res.Username)
	assert.Equal(t, "/images/avatars/2.png", res.AvatarURL)
	assert.Equal(t, "/images/avatars/2.png", svc.DefaultAvatar())
}

func TestProfileService_Load_NetworkFailureKeepsDefaults(t *testing.T) {
	backend := sessionmocks.NewFakeBackend()
	backend.GetProfileFunc = func(context.Context, string) (session.Profile, error) {
		return session.Profile{}, apperrors.Network(errors.New("connection refused"), "")
	}
	metrics := &recordingMetrics{}
	svc := NewProfileService(ProfileServiceOptions{
		Backend:  backend,
		Sessions: sessionmocks.NewMemorySessionStore("7"),
		Origin:   testOrigin,
		Metrics:  metrics,
	})

	res := svc.Load(context.Background())

	assert.True(t, apperrors.IsNetwork(res.Err))
	assert.Equal(t, session.DefaultAvatarPath, res.AvatarURL)
	assert.Empty(t, res.Username)
	assert.Equal(t, 1, backend.Calls("GetProfile"), "never retried")

	submits := metrics.submits()
	require.Len(t, submits, 1)
	assert.Equal(t, "profile_load", submits[0].tags["action"])
	assert.Equal(t, "error", submits[0].tags["result"])
	assert.Equal(t, "network", submits[0].tags["error_class"])
}

func TestProfileService_Load_SessionStoreFailure(t *testing.T) {
	store := sessionmocks.NewMemorySessionStore("7")
	store.Err = errors.New("disk full")
	backend := sessionmocks.NewFakeBackend()

	svc := NewProfileService(ProfileServiceOptions{Backend: backend, Sessions: store})
	res := svc.Load(context.Background())

	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetCode(res.Err))
	assert.Equal(t, session.DefaultAvatarPath, res.AvatarURL)
	assert.Zero(t, backend.TotalCalls())
}

func TestProfileService_Load_CoalescesConcurrentLoads(t *testing.T) {
	release := make(chan struct{})
	backend := sessionmocks.NewFakeBackend()
	backend.GetProfileFunc = func(_ context.Context, userID string) (session.Profile, error) {
		<-release
		return session.Profile{Username: "user-" + userID}, nil
	}
	svc := NewProfileService(ProfileServiceOptions{
		Backend:  backend,
		Sessions: sessionmocks.NewMemorySessionStore("9"),
	})

	const loaders = 4
	results := make([]ProfileResult, loaders)
	var wg sync.WaitGroup
	for i := range loaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.Load(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return backend.Calls("GetProfile") == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, backend.Calls("GetProfile"))
	for _, res := range results {
		assert.Equal(t, "user-9", res.Username)
	}
}

func TestProfileService_Load_CanceledCallerDoesNotFailJoinedCallers(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	backend := sessionmocks.NewFakeBackend()
	backend.GetProfileFunc = func(ctx context.Context, userID string) (session.Profile, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return session.Profile{Username: "user-" + userID}, nil
		case <-ctx.Done():
			return session.Profile{}, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeCanceled, "request canceled")
		}
	}
	svc := NewProfileService(ProfileServiceOptions{
		Backend:  backend,
		Sessions: sessionmocks.NewMemorySessionStore("9"),
	})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	first := make(chan ProfileResult, 1)
	go func() { first <- svc.Load(firstCtx) }()
	<-started

	second := make(chan ProfileResult, 1)
	go func() { second <- svc.Load(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	res := <-first
	assert.True(t, apperrors.IsCanceled(res.Err))
	assert.Equal(t, session.DefaultAvatarPath, res.AvatarURL)

	close(release)
	res = <-second
	require.True(t, res.OK(), "joined caller keeps the shared request: %v", res.Err)
	assert.Equal(t, "user-9", res.Username)
	assert.Equal(t, 1, backend.Calls("GetProfile"))
}
