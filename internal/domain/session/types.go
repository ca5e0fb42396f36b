package session

// Package session contains domain-level types for the dashboard session,
// profile and transient notification state. It is pure and free of
// framework/adapter concerns.

import (
	"net/url"
	"strings"
	"time"
)

// DefaultAvatarPath is shown whenever no profile image is known.
const DefaultAvatarPath = "/images/avatars/1.png"

// Route is an application path a view can navigate to.
type Route string

const (
	RouteHome  Route = "/"
	RouteLogin Route = "/pages/login"
)

// Identity is the locally persisted session entry.
// An empty UserID means no session is held.
type Identity struct {
	UserID    string `json:"user_id"`
	ImagePath string `json:"image_path,omitempty"`
}

// IsZero reports whether the identity carries no user.
func (i Identity) IsZero() bool { return strings.TrimSpace(i.UserID) == "" }

// Cookie is a backend session cookie kept next to the identity so a later
// process can resume the backend session.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// Expired reports whether the cookie has an expiry at or before now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// Profile is the user data returned by the backend for a session identifier.
type Profile struct {
	Username  string  `json:"username"`
	ImagePath *string `json:"imagePath"`
}

// HasImage reports whether the profile carries a non-empty image path.
func (p Profile) HasImage() bool {
	return p.ImagePath != nil && strings.TrimSpace(*p.ImagePath) != ""
}

// AvatarURL resolves the profile image against the backend origin.
// It falls back to fallback (or DefaultAvatarPath) when no image is set
// or the path cannot be resolved.
func (p Profile) AvatarURL(origin, fallback string) string {
	if fallback == "" {
		fallback = DefaultAvatarPath
	}
	if !p.HasImage() {
		return fallback
	}
	resolved, err := ResolveURL(origin, *p.ImagePath)
	if err != nil {
		return fallback
	}
	return resolved
}

// ResolveURL resolves ref against base the way a browser resolves a relative link.
func ResolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

// Severity is the color class of a notification.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Vertical anchor positions.
const (
	VerticalTop    = "top"
	VerticalBottom = "bottom"
)

// Horizontal anchor positions.
const (
	HorizontalLeft   = "left"
	HorizontalCenter = "center"
	HorizontalRight  = "right"
)

// Anchor places a notification on screen.
type Anchor struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

var (
	// AnchorTopCenter is used by the login and registration forms.
	AnchorTopCenter = Anchor{Vertical: VerticalTop, Horizontal: HorizontalCenter}
	// AnchorTopRight is used by the user dropdown and account settings.
	AnchorTopRight = Anchor{Vertical: VerticalTop, Horizontal: HorizontalRight}
)

// OrDefault returns a when both fields are set, otherwise AnchorTopCenter.
func (a Anchor) OrDefault() Anchor {
	if a.Vertical == "" || a.Horizontal == "" {
		return AnchorTopCenter
	}
	return a
}

// Notification is the state of a transient notification banner.
type Notification struct {
	ID       string    `json:"id,omitempty"`
	Visible  bool      `json:"visible"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Anchor   Anchor    `json:"anchor"`
	ShownAt  time.Time `json:"shown_at,omitzero"`
}

// IsError reports whether the notification uses the error severity.
func (n Notification) IsError() bool { return n.Severity == SeverityError }

// Navigation is a route change requested by a view.
// Reload forces every consumer to re-read state instead of changing route.
type Navigation struct {
	Route  Route `json:"route,omitempty"`
	Reload bool  `json:"reload,omitempty"`
}

// String returns a printable form of the navigation target.
func (n Navigation) String() string {
	if n.Reload {
		return "reload"
	}
	return string(n.Route)
}
