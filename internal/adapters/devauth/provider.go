package devauth

// Package devauth provides a config-driven AuthProvider for local development.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/farmlytic/farmlytic-web/internal/ports"
)

// Config controls the dev auth provider behavior.
// Groups decide the role; an empty list signs in a user without a role.
type Config struct {
	UserID          string
	FirstName       string
	Email           string
	Groups          []string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development.
// Begin redirects straight back to our own callback with locally generated state,
// and Exchange returns the configured identity regardless of the code.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
	now             func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur <= 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:    cfg.UserID,
			FirstName: cfg.FirstName,
			Email:     cfg.Email,
			Groups:    slices.Clone(cfg.Groups),
		},
		sessionDuration: dur,
		now:             time.Now,
	}, nil
}

// Begin returns a local callback URL and random state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	q := url.Values{"code": {"dev"}, "state": {state}}
	if in.Signup {
		q.Set("signup", "1")
	}
	return "/auth/callback?" + q.Encode(), state, nonce, nil
}

// Exchange returns the configured identity with a fresh expiry.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("dev auth: code is required")
	}
	id := p.identity
	id.Groups = slices.Clone(p.identity.Groups)
	id.ExpiresAt = p.now().Add(p.sessionDuration)
	return id, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
