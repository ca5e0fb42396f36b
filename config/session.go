package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects where the session identity is persisted.
type SessionStoreKind string

const (
	// SessionStoreMemory keeps the identity for the life of the process.
	SessionStoreMemory SessionStoreKind = "memory"
	// SessionStoreBolt keeps the identity in a local file (default).
	SessionStoreBolt SessionStoreKind = "bolt"
	// SessionStoreRedis shares the identity through Redis.
	SessionStoreRedis SessionStoreKind = "redis"
)

// SessionConfig controls session identity storage.
type SessionConfig struct {
	Store     SessionStoreKind `env:"STORE"     envDefault:"bolt"`
	BoltPath  string           `env:"BOLT_PATH" envDefault:".dashctl-session.db"`
	Namespace string           `env:"NAMESPACE" envDefault:"default"`
	// TTL expires Redis-held sessions; zero keeps them until logout.
	TTL time.Duration `env:"TTL" envDefault:"0s"`
}

// Sanitize normalises the store kind and paths.
func (c *SessionConfig) Sanitize() {
	c.Store = SessionStoreKind(strings.ToLower(strings.TrimSpace(string(c.Store))))
	if c.Store == "" {
		c.Store = SessionStoreBolt
	}
	if c.BoltPath = strings.TrimSpace(c.BoltPath); c.BoltPath == "" {
		c.BoltPath = ".dashctl-session.db"
	}
	if c.Namespace = strings.TrimSpace(c.Namespace); c.Namespace == "" {
		c.Namespace = "default"
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
}

// Validate reports an unknown store kind.
func (c *SessionConfig) Validate() error {
	switch c.Store {
	case SessionStoreMemory, SessionStoreBolt, SessionStoreRedis:
		return nil
	default:
		return fmt.Errorf("invalid session store %q (valid: memory, bolt, redis)", c.Store)
	}
}

// RedisConfig contains Redis configuration for the shared session store.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// Sanitize trims connection values.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.DB < 0 {
		c.DB = 0
	}
	nodes := c.SentinelNodes[:0]
	for _, n := range c.SentinelNodes {
		if n = strings.TrimSpace(n); n != "" {
			nodes = append(nodes, n)
		}
	}
	c.SentinelNodes = nodes
	if len(c.SentinelNodes) == 0 {
		c.UseSentinel = false
	}
}
