package oidc

// Package oidc provides the OIDC/OAuth2 AuthProvider used in production.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/farmlytic/farmlytic-web/internal/ports"
	"golang.org/x/oauth2"
)

// Provider implements ports.AuthProvider using OIDC/OAuth2.
type Provider struct {
	config       *oauth2.Config
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a client with a 30s timeout
}

// DiscoveryDocument is the subset of the OIDC discovery document we rely on.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider discovers the issuer and builds a Provider.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	switch {
	case config.ClientID == "":
		return nil, errors.New("client ID is required")
	case config.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case config.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case config.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = gooidc.ClientContext(ctx, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       strings.Fields(config.Scope),
			Endpoint:     op.Endpoint(),
		},
	}, nil
}

// Begin builds the authorization URL. Signup requests ask the IdP for its registration screen.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	prompt := "select_account"
	if in.Signup {
		prompt = "create"
	}
	authURL := p.config.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", prompt),
	)
	return authURL, state, nonce, nil
}

// Exchange redeems the code, verifies the ID token and nonce, and returns the identity.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	c, err := p.verifiedClaims(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}

	if c.Email == "" || len(c.groups()) == 0 {
		ui, uiErr := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
		if uiErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", uiErr)
		}
		var extra claims
		if claimsErr := ui.Claims(&extra); claimsErr != nil {
			return domainauth.Identity{}, fmt.Errorf("decode user info: %w", claimsErr)
		}
		c = c.merge(extra)
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}
	return c.identity(expiresAt), nil
}

func (p *Provider) verifiedClaims(ctx context.Context, tok *oauth2.Token, expectedNonce string) (claims, error) {
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return claims{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return claims{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != expectedNonce {
		return claims{}, errors.New("invalid nonce")
	}
	var c claims
	if err := idTok.Claims(&c); err != nil {
		return claims{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	return c, nil
}

// claims covers standard OIDC profile claims plus the common group claim names.
type claims struct {
	Sub        string   `json:"sub"`
	Email      string   `json:"email"`
	GivenName  string   `json:"given_name"`
	FamilyName string   `json:"family_name"`
	Name       string   `json:"name"`
	Groups     []string `json:"groups"`
	Roles      []string `json:"roles"`
}

func (c claims) groups() []string {
	if len(c.Groups) > 0 {
		return c.Groups
	}
	return c.Roles
}

// merge fills empty fields of c from other.
func (c claims) merge(other claims) claims {
	c.Sub = firstNonEmpty(c.Sub, other.Sub)
	c.Email = firstNonEmpty(c.Email, other.Email)
	c.GivenName = firstNonEmpty(c.GivenName, other.GivenName)
	c.FamilyName = firstNonEmpty(c.FamilyName, other.FamilyName)
	c.Name = firstNonEmpty(c.Name, other.Name)
	if len(c.groups()) == 0 {
		c.Groups = other.groups()
	}
	return c
}

func (c claims) identity(expiresAt time.Time) domainauth.Identity {
	given := c.GivenName
	if given == "" && c.FamilyName == "" {
		given = c.Name
	}
	return domainauth.Identity{
		UserID:    c.Sub,
		FirstName: given,
		LastName:  c.FamilyName,
		Email:     c.Email,
		Groups:    slices.Clone(c.groups()),
		ExpiresAt: expiresAt,
	}
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
