package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/farmlytic/farmlytic-web/config"
	redisadapter "github.com/farmlytic/farmlytic-web/internal/adapters/redis"
	"github.com/farmlytic/farmlytic-web/internal/ports"
	"github.com/farmlytic/farmlytic-web/internal/service"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Bleed      *service.SessionBleedGuard
	Workspaces *service.WorkspaceService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the Redis adapters into the application services.
// Session-scoped caches share one Redis keyspace so a detected account switch purges all of them.
func NewServices(ctx context.Context, deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("services: app config is required")
	}
	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("services: redis client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sessionCfg := deps.Config.Session

	auth, err := BuildAuthService(ctx, AuthConfig{App: deps.Config, RedisClient: deps.RedisClient, Logger: logger})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	scoped := redisadapter.NewScopedCache(deps.RedisClient, "")
	lastUsers := redisadapter.NewLastUserStore(deps.RedisClient, redisadapter.LastUserStoreOptions{
		TTL: sessionCfg.LastUserTTL,
	})

	return ServiceContainer{
		Auth: auth,
		Bleed: service.NewSessionBleedGuard(service.SessionBleedGuardOptions{
			LastUsers: lastUsers,
			Caches:    []ports.ScopedCache{scoped},
			Logger:    logger,
		}),
		Workspaces: service.NewWorkspaceService(service.WorkspaceServiceOptions{
			Cache:  scoped,
			TTL:    sessionCfg.WorkspaceTTL,
			Logger: logger,
		}),
	}, nil
}
