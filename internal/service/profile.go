package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/target/dashboard-client/internal/clock"
	"github.com/target/dashboard-client/internal/domain/session"
	apperrors "github.com/target/dashboard-client/internal/errors"
	"github.com/target/dashboard-client/internal/observability/metrics"
	"github.com/target/dashboard-client/internal/observability/statsd"
	"github.com/target/dashboard-client/internal/ports"
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Backend  ports.AuthBackend
	Sessions ports.SessionStore
	// Origin is the backend origin image paths are resolved against.
	Origin string
	// DefaultAvatar replaces session.DefaultAvatarPath when set.
	DefaultAvatar string
	Metrics       statsd.Sink
	Clock         clock.Clock
	Logger        *slog.Logger
}

// ProfileResult is the outcome of one profile load.
// AvatarURL and Username always hold displayable values; Err explains why
// they may be defaults.
type ProfileResult struct {
	Profile   session.Profile
	Username  string
	AvatarURL string
	Err       error
}

// OK reports whether the profile was fetched.
func (r ProfileResult) OK() bool { return r.Err == nil }

// ProfileService loads the signed-in user's profile for display.
type ProfileService struct {
	backend       ports.AuthBackend
	sessions      ports.SessionStore
	origin        string
	defaultAvatar string
	metrics       statsd.Sink
	clock         clock.Clock
	logger        *slog.Logger

	group singleflight.Group
}

// NewProfileService constructs a ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "profile_service")
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	avatar := opts.DefaultAvatar
	if avatar == "" {
		avatar = session.DefaultAvatarPath
	}
	return &ProfileService{
		backend:       opts.Backend,
		sessions:      opts.Sessions,
		origin:        opts.Origin,
		defaultAvatar: avatar,
		metrics:       opts.Metrics,
		clock:         clk,
		logger:        logger,
	}
}

// DefaultAvatar returns the avatar shown when no image is known.
func (s *ProfileService) DefaultAvatar() string { return s.defaultAvatar }

// Load reads the session identifier and fetches its profile once.
// Without an identifier no request is made and Err is a not-found error.
// Concurrent loads for the same identifier share a single request.
func (s *ProfileService) Load(ctx context.Context) ProfileResult {
	result := ProfileResult{AvatarURL: s.defaultAvatar}

	userID, err := s.sessions.GetUserID(ctx)
	if err != nil {
		result.Err = apperrors.Wrap(err, apperrors.ErrCodeInternal, "read session")
		s.logger.WarnContext(ctx, "session unavailable, showing defaults", "error", err)
		return result
	}
	if userID == "" {
		result.Err = apperrors.NotFound("no session identifier")
		return result
	}

	start := s.clock.Now()
	profile, shared, err := s.fetch(ctx, userID)
	emitAction(s.metrics, s.clock, "profile_load", start, err)
	if err != nil {
		result.Err = err
		s.logger.WarnContext(ctx, "profile fetch failed, showing defaults",
			"user_id", userID,
			"code", apperrors.GetCode(err),
			"error", err,
		)
		return result
	}

	result.Profile = profile
	result.Username = profile.Username
	result.AvatarURL = profile.AvatarURL(s.origin, s.defaultAvatar)
	s.logger.DebugContext(ctx, "profile loaded", "user_id", userID, "shared", shared)
	return result
}

// fetch joins or starts the shared request for userID. The request itself is
// detached from any one caller's cancellation; each caller stops waiting when
// its own ctx is done.
func (s *ProfileService) fetch(ctx context.Context, userID string) (session.Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return session.Profile{}, false, apperrors.Wrap(err, apperrors.ErrCodeCanceled, "profile load canceled")
	}
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(userID, func() (any, error) {
		return s.backend.GetProfile(detached, userID)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return session.Profile{}, res.Shared, res.Err
		}
		profile, _ := res.Val.(session.Profile)
		return profile, res.Shared, nil
	case <-ctx.Done():
		return session.Profile{}, false, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeCanceled, "profile load canceled")
	}
}

func emitAction(sink statsd.Sink, clk clock.Clock, action string, start time.Time, err error) {
	metrics.EmitAction(sink, metrics.ActionMetric{
		Action:   action,
		Result:   metrics.ResultOf(err),
		Duration: clk.Now().Sub(start),
		Err:      err,
	})
}
