package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/ports"
	"golang.org/x/net/publicsuffix"
)

const persistTimeout = 2 * time.Second

var _ http.CookieJar = (*SessionJar)(nil)

// SessionJarOptions configures a SessionJar.
type SessionJarOptions struct {
	Origin string
	Store  ports.SessionStore
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// SessionJar is a cookie jar whose backend-origin cookies are mirrored into
// the session store, so the backend session outlives the process.
type SessionJar struct {
	jar    *cookiejar.Jar
	origin *url.URL
	store  ports.SessionStore
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	saved map[string]session.Cookie
}

// NewSessionJar builds a jar and seeds it with the unexpired cookies held by
// the store.
func NewSessionJar(ctx context.Context, opts SessionJarOptions) (*SessionJar, error) {
	if opts.Store == nil {
		return nil, errors.New("session store is required")
	}
	origin, err := url.Parse(strings.TrimSpace(opts.Origin))
	if err != nil || origin.Host == "" {
		return nil, fmt.Errorf("invalid backend origin %q", opts.Origin)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "session_jar")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	j := &SessionJar{
		jar:    jar,
		origin: origin,
		store:  opts.Store,
		logger: logger,
		now:    now,
		saved:  make(map[string]session.Cookie),
	}

	stored, err := opts.Store.Cookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session cookies: %w", err)
	}
	restored := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		if c.Name == "" || c.Expired(now()) {
			continue
		}
		j.saved[c.Name] = c
		restored = append(restored, toHTTPCookie(c))
	}
	if len(restored) > 0 {
		jar.SetCookies(origin, restored)
		logger.DebugContext(ctx, "restored session cookies", "count", len(restored))
	}
	return j, nil
}

// Cookies implements http.CookieJar.
func (j *SessionJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// SetCookies implements http.CookieJar. Cookies for other hosts are kept in
// memory only.
func (j *SessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)
	if !strings.EqualFold(u.Hostname(), j.origin.Hostname()) || len(cookies) == 0 {
		return
	}

	j.mu.Lock()
	now := j.now()
	for _, c := range cookies {
		sc := fromHTTPCookie(c, now)
		if c.MaxAge < 0 || sc.Expired(now) {
			delete(j.saved, c.Name)
			continue
		}
		j.saved[c.Name] = sc
	}
	snapshot := make([]session.Cookie, 0, len(j.saved))
	for _, c := range j.saved {
		snapshot = append(snapshot, c)
	}
	j.mu.Unlock()
	slices.SortFunc(snapshot, func(a, b session.Cookie) int { return strings.Compare(a.Name, b.Name) })

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := j.store.SetCookies(ctx, snapshot); err != nil {
		j.logger.WarnContext(ctx, "failed to persist session cookies", "error", err)
	}
}

func fromHTTPCookie(c *http.Cookie, now time.Time) session.Cookie {
	expires := c.Expires
	if c.MaxAge > 0 {
		expires = now.Add(time.Duration(c.MaxAge) * time.Second)
	}
	path := c.Path
	if path == "" {
		path = "/"
	}
	return session.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     path,
		Domain:   c.Domain,
		Expires:  expires,
		Secure:   c.Secure,
		HTTPOnly: c.HttpOnly,
	}
}

func toHTTPCookie(c session.Cookie) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
	}
}
