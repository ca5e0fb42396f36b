package config

import (
	"strings"
	"time"
)

// BackendConfig describes the REST backend the dashboard talks to.
type BackendConfig struct {
	Origin  string        `env:"ORIGIN"  envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	// ErrorMessagePath is a JMESPath expression locating the user-facing
	// message in error response bodies.
	ErrorMessagePath string `env:"ERROR_MESSAGE_PATH" envDefault:"message"`
	UserAgent        string `env:"USER_AGENT"         envDefault:"dashctl"`
}

// Sanitize trims values and restores defaults for blank or invalid ones.
func (c *BackendConfig) Sanitize() {
	c.Origin = strings.TrimRight(strings.TrimSpace(c.Origin), "/")
	if c.Origin == "" {
		c.Origin = "http://localhost:8080"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.ErrorMessagePath = strings.TrimSpace(c.ErrorMessagePath); c.ErrorMessagePath == "" {
		c.ErrorMessagePath = "message"
	}
	c.UserAgent = strings.TrimSpace(c.UserAgent)
}
