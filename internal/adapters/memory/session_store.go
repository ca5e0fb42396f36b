package memory

// Package memory provides a process-local session store.

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps the session identity in memory.
type SessionStore struct {
	mu       sync.RWMutex
	identity session.Identity
	cookies  []session.Cookie
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) GetUserID(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.UserID, nil
}

func (s *SessionStore) SetUserID(_ context.Context, userID string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity.UserID = userID
	return nil
}

func (s *SessionStore) Identity(_ context.Context) (session.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, nil
}

func (s *SessionStore) SetImagePath(_ context.Context, imagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity.ImagePath = imagePath
	return nil
}

func (s *SessionStore) Cookies(_ context.Context) ([]session.Cookie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cookies), nil
}

func (s *SessionStore) SetCookies(_ context.Context, cookies []session.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = slices.Clone(cookies)
	return nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = session.Identity{}
	s.cookies = nil
	return nil
}
