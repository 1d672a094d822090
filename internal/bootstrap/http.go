package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/farmlytic/farmlytic-web/config"
	httpx "github.com/farmlytic/farmlytic-web/internal/http"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPHandler builds the router with its middleware chain.
func BuildHTTPHandler(cfg HTTPServerConfig) (http.Handler, error) {
	if cfg.Config == nil {
		return nil, errors.New("http: app config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	routerCfg := httpx.RouterConfig{
		CookieDomain:  appCfg.HTTP.CookieDomain,
		IsDev:         appCfg.IsDev,
		ClearSiteData: appCfg.Session.ClearSiteData,
	}
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
		routerCfg.Compression = &httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel, Logger: logger}
	}

	services := httpx.RouterServices{
		Config: routerCfg,
		Logger: logger,
	}
	// Typed nils must not reach the router's interface fields.
	if cfg.Services.Auth != nil {
		services.Auth = cfg.Services.Auth
	}
	if cfg.Services.Bleed != nil {
		services.Bleed = cfg.Services.Bleed
	}
	if cfg.Services.Workspaces != nil {
		services.Workspaces = cfg.Services.Workspaces
	}

	handler, err := httpx.NewRouter(services)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	return handler, nil
}

// NewHTTPServer wraps handler in a server with the process timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeConfig contains the server and listener run by Serve.
type ServeConfig struct {
	Server   *http.Server
	Listener net.Listener // Optional: Serve listens on Server.Addr when nil
	Logger   *slog.Logger
}

// Serve runs the server until ctx is cancelled or the server fails, then shuts it down gracefully.
func Serve(ctx context.Context, cfg ServeConfig) error {
	if cfg.Server == nil {
		return errors.New("serve: server is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ln := cfg.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "starting HTTP server", "addr", ln.Addr().String())
		if err := cfg.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	})
	return g.Wait()
}
