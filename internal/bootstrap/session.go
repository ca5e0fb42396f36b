package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/dashboard-client/config"
	"github.com/target/dashboard-client/internal/adapters/boltstore"
	"github.com/target/dashboard-client/internal/adapters/memory"
	redisadapter "github.com/target/dashboard-client/internal/adapters/redis"
	"github.com/target/dashboard-client/internal/ports"
)

// SessionDeps groups what OpenSessionStore needs.
type SessionDeps struct {
	Session config.SessionConfig
	Redis   config.RedisConfig
	Logger  *slog.Logger
}

// OpenSessionStore builds the configured session store. The returned close
// function releases its file lock or connection.
func OpenSessionStore(ctx context.Context, deps SessionDeps) (ports.SessionStore, func() error, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() error { return nil }

	switch deps.Session.Store {
	case config.SessionStoreMemory:
		return memory.NewSessionStore(), noop, nil

	case config.SessionStoreRedis:
		client, err := ConnectRedis(ctx, RedisDeps{Config: deps.Redis, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("connect session redis: %w", err)
		}
		store := redisadapter.NewSessionStoreWithOptions(client, redisadapter.SessionStoreOptions{
			Namespace: deps.Session.Namespace,
			TTL:       deps.Session.TTL,
		})
		return store, client.Close, nil

	case config.SessionStoreBolt, "":
		store, err := boltstore.Open(deps.Session.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("session file opened", "path", deps.Session.BoltPath)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", deps.Session.Store)
	}
}
