package config

import "time"

// SessionConfig controls session resolution and session-scoped state.
type SessionConfig struct {
	// ResolveTimeout bounds the session lookup made while serving a page.
	// Lookups that exceed it render the loading page instead of redirecting.
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"2s"`

	// LastUserTTL is how long a browser's last signed-in user is remembered.
	LastUserTTL time.Duration `env:"LAST_USER_TTL" envDefault:"720h"`

	// WorkspaceTTL is how long per-user page data stays cached.
	WorkspaceTTL time.Duration `env:"WORKSPACE_TTL" envDefault:"5m"`

	// ClearSiteData sends Clear-Site-Data when a browser switches users.
	ClearSiteData bool `env:"CLEAR_SITE_DATA" envDefault:"true"`
}

// Sanitize clamps durations to usable values.
func (s *SessionConfig) Sanitize() {
	if s.ResolveTimeout <= 0 {
		s.ResolveTimeout = 2 * time.Second
	}
	if s.ResolveTimeout > 30*time.Second {
		s.ResolveTimeout = 30 * time.Second
	}
	if s.LastUserTTL < 0 {
		s.LastUserTTL = 0
	}
	if s.WorkspaceTTL <= 0 {
		s.WorkspaceTTL = 5 * time.Minute
	}
}
