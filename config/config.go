package config

import (
	"errors"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and role group configuration
//   - redis.go: Redis connection configuration
//   - http.go: HTTP server and cookie configuration
//   - session.go: Session resolution and session-scoped state
//   - logging.go: Log level and format
type AppConfig struct {
	// IsDev controls development mode behavior (templates from disk, insecure cookies).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth    AuthConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`
	HTTP    HTTPConfig
	Session SessionConfig `envPrefix:"SESSION_"`
	Log     LogConfig     `envPrefix:"LOG_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Log.Sanitize()

	c.Auth.OAuth.RedirectURL = strings.TrimSpace(c.Auth.OAuth.RedirectURL)
	if c.Auth.OAuth.RedirectURL == "" && c.HTTP.BaseURL != "" {
		c.Auth.OAuth.RedirectURL = c.HTTP.BaseURL + CallbackPath
	}
}

// Validate reports configuration that cannot be used to start the server.
func (c *AppConfig) Validate() error {
	return errors.Join(
		c.Auth.Validate(c.IsDev),
		c.Redis.Validate(),
		c.HTTP.Validate(),
	)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
