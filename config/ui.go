package config

import (
	"strings"
	"time"
)

const (
	defaultNotificationTimeout = 5 * time.Second
	defaultNavigationDelay     = 1500 * time.Millisecond
	defaultAvatar              = "/images/avatars/1.png"
	defaultFooterAuthor        = "Group 06"

	// defaultVisibleAfterNavigation is how long a notification outlasts its
	// navigation with the default timings.
	defaultVisibleAfterNavigation = defaultNotificationTimeout - defaultNavigationDelay
)

// UIConfig holds presentation timing and display defaults.
type UIConfig struct {
	NotificationTimeout time.Duration `env:"NOTIFICATION_TIMEOUT" envDefault:"5s"`
	NavigationDelay     time.Duration `env:"NAVIGATION_DELAY"     envDefault:"1500ms"`
	DefaultAvatar       string        `env:"DEFAULT_AVATAR"       envDefault:"/images/avatars/1.png"`
	// AvatarMaxBytes enables a client-side size check; 0 leaves it to the backend.
	AvatarMaxBytes int64 `env:"AVATAR_MAX_BYTES" envDefault:"0"`
	// AvatarTypes enables a client-side content type check when non-empty.
	AvatarTypes  []string `env:"AVATAR_TYPES"`
	FooterAuthor string   `env:"FOOTER_AUTHOR" envDefault:"Group 06"`
}

// Sanitize restores defaults for non-positive durations and blank strings,
// and keeps the notification timeout longer than the navigation delay.
func (c *UIConfig) Sanitize() {
	if c.NotificationTimeout <= 0 {
		c.NotificationTimeout = defaultNotificationTimeout
	}
	if c.NavigationDelay <= 0 {
		c.NavigationDelay = defaultNavigationDelay
	}
	// A notification must still be visible when its navigation fires.
	if c.NotificationTimeout <= c.NavigationDelay {
		c.NotificationTimeout = c.NavigationDelay + defaultVisibleAfterNavigation
	}
	if c.DefaultAvatar = strings.TrimSpace(c.DefaultAvatar); c.DefaultAvatar == "" {
		c.DefaultAvatar = defaultAvatar
	}
	if c.AvatarMaxBytes < 0 {
		c.AvatarMaxBytes = 0
	}
	types := c.AvatarTypes[:0]
	for _, t := range c.AvatarTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			types = append(types, t)
		}
	}
	c.AvatarTypes = types
	if c.FooterAuthor = strings.TrimSpace(c.FooterAuthor); c.FooterAuthor == "" {
		c.FooterAuthor = defaultFooterAuthor
	}
}
