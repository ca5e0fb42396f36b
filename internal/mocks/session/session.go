package session

// Package session contains simple hand-written test doubles for the session,
// backend and router ports. These are lightweight and suitable for unit tests
// without codegen.

import (
	"context"
	"errors"
	"slices"
	"sync"

	domain "github.com/target/dashboard-client/internal/domain/session"
	apperrors "github.com/target/dashboard-client/internal/errors"
	"github.com/target/dashboard-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.AuthBackend  = (*FakeBackend)(nil)
	_ ports.Router       = (*RecordingRouter)(nil)
)

// MemorySessionStore is an in-memory session store.
// Err, when set, is returned by every method.
type MemorySessionStore struct {
	mu       sync.Mutex
	identity domain.Identity
	cookies  []domain.Cookie
	Err      error
	clears   int
}

// NewMemorySessionStore creates a store holding userID (empty for no session).
func NewMemorySessionStore(userID string) *MemorySessionStore {
	return &MemorySessionStore{identity: domain.Identity{UserID: userID}}
}

func (m *MemorySessionStore) GetUserID(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.identity.UserID, nil
}

func (m *MemorySessionStore) SetUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	m.identity.UserID = userID
	return nil
}

func (m *MemorySessionStore) Identity(_ context.Context) (domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return domain.Identity{}, m.Err
	}
	return m.identity, nil
}

func (m *MemorySessionStore) SetImagePath(_ context.Context, imagePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.identity.ImagePath = imagePath
	return nil
}

func (m *MemorySessionStore) Cookies(_ context.Context) ([]domain.Cookie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return slices.Clone(m.cookies), nil
}

func (m *MemorySessionStore) SetCookies(_ context.Context, cookies []domain.Cookie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.cookies = slices.Clone(cookies)
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.Err != nil {
		return m.Err
	}
	m.identity = domain.Identity{}
	m.cookies = nil
	return nil
}

// Clears returns how many times Clear was called.
func (m *MemorySessionStore) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// FakeBackend is a scriptable AuthBackend that counts calls.
// Unset funcs succeed with canned values.
type FakeBackend struct {
	LoginFunc         func(ctx context.Context, in ports.Credentials) (ports.LoginResult, error)
	SignupFunc        func(ctx context.Context, in ports.Registration) (string, error)
	GetProfileFunc    func(ctx context.Context, userID string) (domain.Profile, error)
	UploadProfileFunc func(ctx context.Context, in ports.AvatarUpload) (ports.UploadResult, error)
	SignoutFunc       func(ctx context.Context) (string, error)

	mu    sync.Mutex
	calls map[string]int
}

// NewFakeBackend creates a FakeBackend with default behaviour.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{calls: make(map[string]int)}
}

func (f *FakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (f *FakeBackend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// TotalCalls returns the number of backend calls across all methods.
func (f *FakeBackend) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *FakeBackend) Login(ctx context.Context, in ports.Credentials) (ports.LoginResult, error) {
	f.record("Login")
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, in)
	}
	return ports.LoginResult{Message: "Login successful", UserID: "1"}, nil
}

func (f *FakeBackend) Signup(ctx context.Context, in ports.Registration) (string, error) {
	f.record("Signup")
	if f.SignupFunc != nil {
		return f.SignupFunc(ctx, in)
	}
	return "User registered successfully", nil
}

func (f *FakeBackend) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	f.record("GetProfile")
	if f.GetProfileFunc != nil {
		return f.GetProfileFunc(ctx, userID)
	}
	if userID == "" {
		return domain.Profile{}, apperrors.Server(404, "User not found")
	}
	return domain.Profile{Username: "user-" + userID}, nil
}

func (f *FakeBackend) UploadProfile(ctx context.Context, in ports.AvatarUpload) (ports.UploadResult, error) {
	f.record("UploadProfile")
	if f.UploadProfileFunc != nil {
		return f.UploadProfileFunc(ctx, in)
	}
	return ports.UploadResult{Message: "Profile picture updated", ImagePath: "/uploads/" + in.FileName}, nil
}

func (f *FakeBackend) Signout(ctx context.Context) (string, error) {
	f.record("Signout")
	if f.SignoutFunc != nil {
		return f.SignoutFunc(ctx)
	}
	return "Signed out", nil
}

// RecordingRouter records every navigation it receives.
type RecordingRouter struct {
	mu   sync.Mutex
	navs []domain.Navigation
}

func (r *RecordingRouter) Navigate(nav domain.Navigation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navs = append(r.navs, nav)
}

// Navigations returns a copy of the recorded navigations.
func (r *RecordingRouter) Navigations() []domain.Navigation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Navigation, len(r.navs))
	copy(out, r.navs)
	return out
}
