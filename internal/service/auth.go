package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/farmlytic/farmlytic-web/internal/ports"
	"github.com/google/uuid"
)

// DefaultResolveTimeout bounds session lookups made while serving a page.
const DefaultResolveTimeout = 2 * time.Second

// AuthPorts groups the adapters AuthService coordinates.
type AuthPorts struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
}

// AuthServiceConfig holds tunables for AuthService.
type AuthServiceConfig struct {
	// ResolveTimeout bounds ResolveState. Zero uses DefaultResolveTimeout.
	ResolveTimeout time.Duration
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Ports  AuthPorts
	Config AuthServiceConfig
	Logger *slog.Logger // Optional
}

// AuthService orchestrates authentication flows by coordinating provider, role mapping, and session persistence.
type AuthService struct {
	provider       ports.AuthProvider
	sessions       ports.SessionStore
	roles          ports.RoleMapper
	resolveTimeout time.Duration
	logger         *slog.Logger
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Ports.Provider == nil || opts.Ports.Sessions == nil || opts.Ports.Roles == nil {
		panic("service: AuthService requires provider, sessions, and roles")
	}
	timeout := opts.Config.ResolveTimeout
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:       opts.Ports.Provider,
		sessions:       opts.Ports.Sessions,
		roles:          opts.Ports.Roles,
		resolveTimeout: timeout,
		logger:         logger.With("component", "auth_service"),
	}
}

// BeginLoginInput groups parameters for starting a login or registration flow.
type BeginLoginInput struct {
	RedirectURL string
	Signup      bool
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, in BeginLoginInput) (*BeginLoginResult, error) {
	if in.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: in.RedirectURL, Signup: in.Signup})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the code for an identity, maps its groups to a role, and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	switch {
	case input.Code == "":
		return nil, errors.New("authorization code is required")
	case input.State == "":
		return nil, errors.New("state parameter is required")
	case input.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if identity.UserID == "" {
		return nil, errors.New("identity has no user ID")
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      s.roles.Map(identity.Groups),
		ExpiresAt: identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "user signed in",
		"user_id", session.UserID,
		"role", string(session.Role),
	)
	return &CompleteLoginResult{Session: session}, nil
}

// GetSession retrieves a live session by ID. Expired sessions are deleted.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// ResolveState turns a session cookie value into the three-way auth state.
// A missing or expired session is anonymous. Any other failure, including the
// lookup deadline, is reported as loading so callers never redirect on an outage.
func (s *AuthService) ResolveState(ctx context.Context, sessionID string) domainauth.State {
	if sessionID == "" {
		return domainauth.AnonymousState()
	}

	ctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	session, err := s.GetSession(ctx, sessionID)
	if err == nil {
		return domainauth.AuthenticatedState(*session)
	}
	if errors.Is(err, ports.ErrSessionNotFound) || errors.Is(err, errSessionExpired) {
		return domainauth.AnonymousState()
	}

	s.logger.WarnContext(ctx, "session lookup unavailable", "error", err)
	return domainauth.LoadingState()
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
