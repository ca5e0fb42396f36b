package boltstore

// Package boltstore keeps the session identity in a local bolt database file.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/ports"
)

var (
	bucketSession = []byte("Session")

	keyUserID    = []byte("userId")
	keyImagePath = []byte("imagePath")
	keyCookies   = []byte("cookies")
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is a single-entry key-value store backed by a bolt file.
type SessionStore struct {
	db *bolt.DB
}

// Open opens (creating if needed) the bolt file at path.
func Open(path string) (*SessionStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session file %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketSession)
		return createErr
	}); err != nil {
		return nil, errors.Join(fmt.Errorf("create session bucket: %w", err), db.Close())
	}
	return &SessionStore{db: db}, nil
}

// Close releases the file lock.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

func (s *SessionStore) GetUserID(ctx context.Context) (string, error) {
	identity, err := s.Identity(ctx)
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}

func (s *SessionStore) SetUserID(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	return s.put(ctx, keyUserID, userID)
}

func (s *SessionStore) Identity(ctx context.Context) (session.Identity, error) {
	if err := ctx.Err(); err != nil {
		return session.Identity{}, err
	}
	var identity session.Identity
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		identity.UserID = string(b.Get(keyUserID))
		identity.ImagePath = string(b.Get(keyImagePath))
		return nil
	})
	if err != nil {
		return session.Identity{}, fmt.Errorf("read session: %w", err)
	}
	return identity, nil
}

func (s *SessionStore) SetImagePath(ctx context.Context, imagePath string) error {
	return s.put(ctx, keyImagePath, imagePath)
}

// Cookies returns the stored cookies, or nil when none are kept.
func (s *SessionStore) Cookies(ctx context.Context) ([]session.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var raw []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSession).Get(keyCookies); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var cookies []session.Cookie
	if err := json.Unmarshal(raw, &cookies); err != nil {
		return nil, fmt.Errorf("decode cookies: %w", err)
	}
	return cookies, nil
}

func (s *SessionStore) SetCookies(ctx context.Context, cookies []session.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(cookies) == 0 {
		return s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketSession).Delete(keyCookies)
		})
	}
	raw, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	return s.put(ctx, keyCookies, string(raw))
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		for _, key := range [][]byte{keyUserID, keyImagePath, keyCookies} {
			if err := b.Delete(key); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
		}
		return nil
	})
}

func (s *SessionStore) put(ctx context.Context, key []byte, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketSession).Put(key, []byte(value)); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		return nil
	})
}
