package config

import (
	"errors"
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
// An empty RedirectURL defaults to APP_BASE_URL + CallbackPath.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"farmlytic"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:""`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID    string   `env:"USER_ID"    envDefault:"dev-farmer"`
	FirstName string   `env:"FIRST_NAME" envDefault:"Dev"`
	Email     string   `env:"EMAIL"      envDefault:"dev@farmlytic.local"`
	Groups    []string `env:"GROUPS"     envDefault:"farmlytic-farmers" envSeparator:";"`
}

// RoleGroups names the IdP groups granting each role.
type RoleGroups struct {
	Farmer     string `env:"FARMER_GROUP"     envDefault:"farmlytic-farmers"`
	Supplier   string `env:"SUPPLIER_GROUP"   envDefault:"farmlytic-suppliers"`
	Specialist string `env:"SPECIALIST_GROUP" envDefault:"farmlytic-specialists"`
}

// CallbackPath is where the identity provider returns after sign-in.
const CallbackPath = "/auth/callback"

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	Groups RoleGroups
}

// Sanitize trims group names.
func (a *AuthConfig) Sanitize() {
	a.Groups.Farmer = strings.TrimSpace(a.Groups.Farmer)
	a.Groups.Supplier = strings.TrimSpace(a.Groups.Supplier)
	a.Groups.Specialist = strings.TrimSpace(a.Groups.Specialist)
	a.OAuth.DiscoveryURL = strings.TrimSpace(a.OAuth.DiscoveryURL)
}

// Validate checks the settings required by the selected mode.
// Mock auth is refused outside dev mode.
func (a *AuthConfig) Validate(isDev bool) error {
	var errs []error
	switch a.Mode {
	case AuthModeMock:
		if !isDev {
			errs = append(errs, errors.New("AUTH_MODE=mock requires DEV=true"))
		}
	case AuthModeOAuth, "":
		if a.OAuth.DiscoveryURL == "" {
			errs = append(errs, errors.New("OAUTH_DISCOVERY_URL is required when AUTH_MODE=oauth"))
		}
		if a.OAuth.RedirectURL == "" {
			errs = append(errs, errors.New("OAUTH_REDIRECT_URL is required when AUTH_MODE=oauth"))
		}
	}

	seen := map[string]string{}
	for name, group := range map[string]string{
		"FARMER_GROUP":     a.Groups.Farmer,
		"SUPPLIER_GROUP":   a.Groups.Supplier,
		"SPECIALIST_GROUP": a.Groups.Specialist,
	} {
		if group == "" {
			errs = append(errs, fmt.Errorf("%s cannot be empty", name))
			continue
		}
		if other, dup := seen[strings.ToLower(group)]; dup {
			errs = append(errs, fmt.Errorf("%s and %s name the same group %q", other, name, group))
		}
		seen[strings.ToLower(group)] = name
	}
	return errors.Join(errs...)
}
