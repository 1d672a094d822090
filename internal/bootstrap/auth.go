package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/farmlytic/farmlytic-web/config"
	"github.com/farmlytic/farmlytic-web/internal/adapters/authroles"
	"github.com/farmlytic/farmlytic-web/internal/adapters/devauth"
	"github.com/farmlytic/farmlytic-web/internal/adapters/oidc"
	redisadapter "github.com/farmlytic/farmlytic-web/internal/adapters/redis"
	"github.com/farmlytic/farmlytic-web/internal/ports"
	"github.com/farmlytic/farmlytic-web/internal/service"
	"github.com/redis/go-redis/v9"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	App         *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service for the configured auth mode.
func BuildAuthService(ctx context.Context, cfg AuthConfig) (*service.AuthService, error) {
	if cfg.App == nil {
		return nil, errors.New("auth: app config is required")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("auth: redis client is required")
	}
	auth := cfg.App.Auth

	provider, err := buildProvider(ctx, auth)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Ports: service.AuthPorts{
			Provider: provider,
			Sessions: redisadapter.NewSessionStore(cfg.RedisClient),
			Roles: authroles.GroupRoleMapper{
				FarmerGroup:     auth.Groups.Farmer,
				SupplierGroup:   auth.Groups.Supplier,
				SpecialistGroup: auth.Groups.Specialist,
			},
		},
		Config: service.AuthServiceConfig{ResolveTimeout: cfg.App.Session.ResolveTimeout},
		Logger: cfg.Logger,
	}), nil
}

//nolint:ireturn // the provider is chosen by auth mode.
func buildProvider(ctx context.Context, auth config.AuthConfig) (ports.AuthProvider, error) {
	switch auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:    auth.DevAuth.UserID,
			FirstName: auth.DevAuth.FirstName,
			Email:     auth.DevAuth.Email,
			Groups:    auth.DevAuth.Groups,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth, "":
		oauth := auth.OAuth
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", auth.Mode)
	}
}
