package redis

// Package redis provides Redis-based adapters for the dashboard client.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/ports"
)

const (
	fieldUserID    = "user_id"
	fieldImagePath = "image_path"
	fieldCookies   = "cookies"

	defaultPrefix = "dashboard:session:"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps the session identity in a Redis hash so several
// clients sharing a namespace see the same session.
// A positive TTL is refreshed on every write.
type SessionStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	Prefix    string
	Namespace string
	TTL       time.Duration
}

// NewSessionStore creates a Redis-based session store for namespace "default".
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithOptions(client, SessionStoreOptions{})
}

// NewSessionStoreWithOptions creates a Redis session store with a custom key prefix, namespace and TTL.
func NewSessionStoreWithOptions(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	namespace := strings.TrimSpace(opts.Namespace)
	if namespace == "" {
		namespace = "default"
	}
	return &SessionStore{
		client: client,
		key:    prefix + namespace,
		ttl:    opts.TTL,
	}
}

func (s *SessionStore) GetUserID(ctx context.Context) (string, error) {
	id, err := s.client.HGet(ctx, s.key, fieldUserID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis hget: %w", err)
	}
	return id, nil
}

func (s *SessionStore) SetUserID(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	return s.set(ctx, fieldUserID, userID)
}

func (s *SessionStore) Identity(ctx context.Context) (session.Identity, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return session.Identity{}, fmt.Errorf("redis hgetall: %w", err)
	}
	return session.Identity{
		UserID:    values[fieldUserID],
		ImagePath: values[fieldImagePath],
	}, nil
}

func (s *SessionStore) SetImagePath(ctx context.Context, imagePath string) error {
	return s.set(ctx, fieldImagePath, imagePath)
}

// Cookies returns the stored cookies, or nil when none are kept.
func (s *SessionStore) Cookies(ctx context.Context) ([]session.Cookie, error) {
	raw, err := s.client.HGet(ctx, s.key, fieldCookies).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis hget: %w", err)
	}
	var cookies []session.Cookie
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil {
		return nil, fmt.Errorf("decode cookies: %w", err)
	}
	return cookies, nil
}

func (s *SessionStore) SetCookies(ctx context.Context, cookies []session.Cookie) error {
	if len(cookies) == 0 {
		if err := s.client.HDel(ctx, s.key, fieldCookies).Err(); err != nil {
			return fmt.Errorf("redis hdel: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	return s.set(ctx, fieldCookies, string(raw))
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *SessionStore) set(ctx context.Context, field, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key, field, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset %s: %w", field, err)
	}
	return nil
}
