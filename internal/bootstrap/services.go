package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/dashboard-client/config"
	"github.com/target/dashboard-client/internal/adapters/httpapi"
	"github.com/target/dashboard-client/internal/clock"
	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/observability/statsd"
	"github.com/target/dashboard-client/internal/ports"
	"github.com/target/dashboard-client/internal/service"
	"github.com/target/dashboard-client/internal/service/notification"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Profiles  *service.ProfileService
	Dashboard *service.Dashboard
	Backend   ports.AuthBackend
	Sessions  ports.SessionStore
	Metrics   *statsd.Client

	ui     config.UIConfig
	clock  clock.Clock
	logger *slog.Logger
	closer func() error
}

// ServiceDeps groups dependencies for service initialization.
// Backend and Sessions override the configured adapters when set.
type ServiceDeps struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	Clock    clock.Clock
	Backend  ports.AuthBackend
	Sessions ports.SessionStore
}

// BuildServices wires adapters and services from configuration.
func BuildServices(ctx context.Context, deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	sessions := deps.Sessions
	closer := func() error { return nil }
	if sessions == nil {
		store, closeStore, err := OpenSessionStore(ctx, SessionDeps{
			Session: cfg.Session,
			Redis:   cfg.Redis,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		sessions = store
		closer = closeStore
	}

	backend := deps.Backend
	origin := cfg.Backend.Origin
	if backend == nil {
		client, err := buildBackend(ctx, cfg.Backend, sessions, logger)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("build backend client: %w", err), closer())
		}
		backend = client
		origin = client.Origin()
	}

	metricsSink := buildMetrics(ctx, logger, cfg.Observability.Metrics)

	profiles := service.NewProfileService(service.ProfileServiceOptions{
		Backend:       backend,
		Sessions:      sessions,
		Origin:        origin,
		DefaultAvatar: cfg.UI.DefaultAvatar,
		Metrics:       metricsSink,
		Clock:         clk,
		Logger:        logger.With("component", "profile_service"),
	})

	return &ServiceContainer{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Backend:  backend,
			Sessions: sessions,
			AvatarPolicy: service.AvatarPolicy{
				MaxBytes:     cfg.UI.AvatarMaxBytes,
				AllowedTypes: cfg.UI.AvatarTypes,
			},
			Metrics: metricsSink,
			Clock:   clk,
			Logger:  logger.With("component", "auth_service"),
		}),
		Profiles: profiles,
		Dashboard: service.NewDashboard(service.DashboardOptions{
			Profiles:     profiles,
			Clock:        clk,
			FooterAuthor: cfg.UI.FooterAuthor,
		}),
		Backend:  backend,
		Sessions: sessions,
		Metrics:  metricsSink,
		ui:       cfg.UI,
		clock:    clk,
		logger:   logger,
		closer:   closer,
	}, nil
}

// NewView mounts a view using the configured timings.
func (c *ServiceContainer) NewView(name string, anchor session.Anchor, router ports.Router, sinks ...notification.SinkRegistration) (*service.View, error) {
	return service.NewView(service.ViewOptions{
		Name:                name,
		Anchor:              anchor,
		Router:              router,
		Clock:               c.clock,
		Logger:              c.logger,
		Sinks:               sinks,
		NotificationTimeout: c.ui.NotificationTimeout,
		NavigationDelay:     c.ui.NavigationDelay,
	})
}

// Close releases the session store and the metrics connection.
func (c *ServiceContainer) Close() error {
	var errs []error
	if c.closer != nil {
		if err := c.closer(); err != nil {
			errs = append(errs, fmt.Errorf("close session store: %w", err))
		}
	}
	if err := c.Metrics.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close metrics: %w", err))
	}
	return errors.Join(errs...)
}

// buildBackend creates the REST client with a cookie jar backed by the
// session store, so a login in one run authenticates the next.
func buildBackend(ctx context.Context, cfg config.BackendConfig, sessions ports.SessionStore, logger *slog.Logger) (*httpapi.Client, error) {
	jar, err := httpapi.NewSessionJar(ctx, httpapi.SessionJarOptions{
		Origin: cfg.Origin,
		Store:  sessions,
		Logger: logger.With("component", "session_jar"),
	})
	if err != nil {
		return nil, err
	}
	return httpapi.NewClient(httpapi.Options{
		Origin:      cfg.Origin,
		Jar:         jar,
		Timeout:     cfg.Timeout,
		UserAgent:   cfg.UserAgent,
		MessagePath: cfg.ErrorMessagePath,
		Logger:      logger.With("component", "backend_client"),
	})
}

// buildMetrics returns nil when metrics are disabled or the sink cannot be reached.
func buildMetrics(ctx context.Context, logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(ctx, statsd.Config{
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		Logger:     logger,
		GlobalTags: map[string]string{"app": "dashctl"},
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}
