package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/dashboard-client/internal/clock"
	"github.com/target/dashboard-client/internal/domain/session"
	apperrors "github.com/target/dashboard-client/internal/errors"
	"github.com/target/dashboard-client/internal/observability/statsd"
	"github.com/target/dashboard-client/internal/ports"
	"github.com/target/dashboard-client/internal/validation"
)

// Messages shown when the backend does not supply one.
const (
	MessageLoginSucceeded    = "Login successful"
	MessageRegisterSucceeded = "Registration successful"
	MessageUploadSucceeded   = "Profile picture updated"
	MessageSignedOut         = "Signed out"

	MessageRequestFailed = "Something went wrong, please try again"
	MessageNetworkFailed = "Unable to reach the server, please try again"
	MessageInvalidAvatar = "Invalid file type, only JPEG and PNG is allowed!"

	MessageSessionUnavailable = "Session unavailable, please sign in again"
)

// Submission action names used for logging and metrics.
const (
	ActionLogin    = "login"
	ActionRegister = "register"
	ActionUpload   = "upload_avatar"
	ActionLogout   = "logout"
)

// AvatarPolicy is an optional client-side pre-check of avatar uploads.
// The zero value accepts everything and leaves enforcement to the backend.
type AvatarPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

func (p AvatarPolicy) check(in ports.AvatarUpload) error {
	if len(p.AllowedTypes) > 0 && validation.OneOf("Content type", p.AllowedTypes)(in.ContentType) != "" {
		return apperrors.ValidationField("image", MessageInvalidAvatar)
	}
	if p.MaxBytes > 0 && in.Size > p.MaxBytes {
		return apperrors.ValidationField("image", fmt.Sprintf("Image must be at most %d bytes", p.MaxBytes))
	}
	return nil
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend      ports.AuthBackend
	Sessions     ports.SessionStore
	AvatarPolicy AvatarPolicy
	Metrics      statsd.Sink
	Clock        clock.Clock
	Logger       *slog.Logger
}

// Outcome is the user-visible result of one submission.
// Navigation is nil when nothing was scheduled.
type Outcome struct {
	Message    string
	Severity   session.Severity
	Err        error
	Navigation *session.Navigation
}

// OK reports whether the submission succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// AuthService submits user actions to the backend and reports each result
// through the submitting view: exactly one notification, then an optional
// delayed navigation. Errors never escape a submission.
type AuthService struct {
	backend  ports.AuthBackend
	sessions ports.SessionStore
	policy   AvatarPolicy
	metrics  statsd.Sink
	clock    clock.Clock
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "auth_service")
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	return &AuthService{
		backend:  opts.Backend,
		sessions: opts.Sessions,
		policy:   opts.AvatarPolicy,
		metrics:  opts.Metrics,
		clock:    clk,
		logger:   logger,
	}
}

// Login posts credentials. On success the returned identifier becomes the
// session identity and the view navigates home.
func (s *AuthService) Login(ctx context.Context, v *View, in ports.Credentials) Outcome {
	start := s.clock.Now()
	res, err := s.backend.Login(ctx, in)
	emitAction(s.metrics, s.clock, ActionLogin, start, err)
	if err != nil {
		return s.fail(ctx, v, ActionLogin, err, failureFallback(err))
	}

	if res.UserID != "" {
		if serr := s.sessions.SetUserID(ctx, res.UserID); serr != nil {
			s.logger.WarnContext(ctx, "failed to persist session identity", "error", serr)
		}
	}
	return s.succeed(v, orDefault(res.Message, MessageLoginSucceeded), &session.Navigation{Route: session.RouteHome})
}

// Register validates the form locally and posts it. A malformed email is
// rejected without contacting the backend.
func (s *AuthService) Register(ctx context.Context, v *View, in ports.Registration) Outcome {
	if err := validateRegistration(in); err != nil {
		emitAction(s.metrics, s.clock, ActionRegister, s.clock.Now(), err)
		return s.fail(ctx, v, ActionRegister, err, validation.InvalidEmailMessage)
	}

	start := s.clock.Now()
	msg, err := s.backend.Signup(ctx, in)
	emitAction(s.metrics, s.clock, ActionRegister, start, err)
	if err != nil {
		return s.fail(ctx, v, ActionRegister, err, failureFallback(err))
	}
	return s.succeed(v, orDefault(msg, MessageRegisterSucceeded), &session.Navigation{Route: session.RouteLogin})
}

// UploadAvatar submits a new profile image for the session user.
// On success the image path is persisted and a full reload is scheduled;
// on failure the current avatar is left alone.
func (s *AuthService) UploadAvatar(ctx context.Context, v *View, in ports.AvatarUpload) Outcome {
	if err := s.policy.check(in); err != nil {
		emitAction(s.metrics, s.clock, ActionUpload, s.clock.Now(), err)
		return s.fail(ctx, v, ActionUpload, err, MessageInvalidAvatar)
	}

	if in.UserID == "" {
		id, err := s.sessions.GetUserID(ctx)
		switch {
		case err != nil:
			err = apperrors.Wrap(err, apperrors.ErrCodeInternal, "read session")
		case id == "":
			err = apperrors.NotFound("no session identifier")
		}
		if err != nil {
			emitAction(s.metrics, s.clock, ActionUpload, s.clock.Now(), err)
			return s.fail(ctx, v, ActionUpload, err, MessageSessionUnavailable)
		}
		in.UserID = id
	}

	start := s.clock.Now()
	res, err := s.backend.UploadProfile(ctx, in)
	emitAction(s.metrics, s.clock, ActionUpload, start, err)
	if err != nil {
		return s.fail(ctx, v, ActionUpload, err, MessageInvalidAvatar)
	}

	if res.ImagePath != "" {
		if serr := s.sessions.SetImagePath(ctx, res.ImagePath); serr != nil {
			s.logger.WarnContext(ctx, "failed to persist image path", "error", serr)
		}
	}
	return s.succeed(v, orDefault(res.Message, MessageUploadSucceeded), &session.Navigation{Reload: true})
}

// Logout clears the local session before telling the backend, and always
// navigates to the login page: local state decides that the session ended.
func (s *AuthService) Logout(ctx context.Context, v *View) Outcome {
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to clear session", "error", err)
	}

	start := s.clock.Now()
	msg, err := s.backend.Signout(ctx)
	emitAction(s.metrics, s.clock, ActionLogout, start, err)

	target := &session.Navigation{Route: session.RouteLogin}
	if err != nil {
		out := s.fail(ctx, v, ActionLogout, err, failureFallback(err))
		out.Navigation = target
		v.Navigator.Schedule(*target)
		return out
	}
	return s.succeed(v, orDefault(msg, MessageSignedOut), target)
}

func (s *AuthService) succeed(v *View, message string, nav *session.Navigation) Outcome {
	v.Notify(message, session.SeveritySuccess)
	if nav != nil {
		v.Navigator.Schedule(*nav)
	}
	return Outcome{Message: message, Severity: session.SeveritySuccess, Navigation: nav}
}

func (s *AuthService) fail(ctx context.Context, v *View, action string, err error, fallback string) Outcome {
	message := apperrors.UserMessage(err, fallback)
	s.logger.DebugContext(ctx, "submission failed",
		"action", action,
		"view", v.Name,
		"code", apperrors.GetCode(err),
		"field", apperrors.GetField(err),
		"error", err,
	)
	v.Notify(message, session.SeverityError)
	return Outcome{Message: message, Severity: session.SeverityError, Err: err}
}

func validateRegistration(in ports.Registration) error {
	fv := validation.New().
		Validate("email", in.Email, validation.Email()).
		Validate("username", in.Username, validation.Required("Username", 0)).
		Validate("password", in.Password, validation.Required("Password", 0))
	if field, msg, ok := fv.First(); ok {
		return apperrors.ValidationField(field, msg)
	}
	return nil
}

func failureFallback(err error) string {
	if apperrors.IsNetwork(err) || apperrors.IsCanceled(err) {
		return MessageNetworkFailed
	}
	return MessageRequestFailed
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
