package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	farmlytic "github.com/farmlytic/farmlytic-web"
	"github.com/farmlytic/farmlytic-web/internal/domain/access"
)

// RouterConfig holds HTTP-level settings for NewRouter.
type RouterConfig struct {
	CookieDomain  string
	IsDev         bool // Serve templates and static files from disk
	ClearSiteData bool
	Compression   *CompressionConfig // Nil disables gzip
}

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	Auth       AuthServiceInterface
	Bleed      BleedObserver     // Optional
	Workspaces WorkspaceProvider // Optional
	Config     RouterConfig
	Logger     *slog.Logger
}

// NewRouter builds the page routes from the access route table and wraps them with the shared middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil {
		return nil, errors.New("router: auth service is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := services.Config
	cookies := cookieJar{domain: cfg.CookieDomain}

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS(cfg.IsDev), Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	pages := &PageHandlers{T: renderer, Workspaces: services.Workspaces, Logger: logger, cookies: cookies}
	guard := NewGuard(GuardOptions{
		Bleed: services.Bleed,
		Config: GuardConfig{
			ClearSiteData: cfg.ClearSiteData,
			CookieDomain:  cfg.CookieDomain,
			Loading:       http.HandlerFunc(pages.Loading),
		},
		Logger: logger,
	})
	authHandlers := &AuthHandlers{Svc: services.Auth, Guard: guard, Logger: logger, cookies: cookies}
	themeHandlers := &ThemeHandlers{cookies: cookies}
	resolve := ResolveAuth(services.Auth, cfg.CookieDomain)

	mux := http.NewServeMux()
	registerPageRoutes(mux, pageRoutes{Pages: pages, Guard: guard, Resolve: resolve})
	registerAuthRoutes(mux, authHandlers, resolve)
	mux.HandleFunc("POST /theme", themeHandlers.Set)
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.Handle("GET /static/", staticHandler(cfg.IsDev))

	var handler http.Handler = mux
	handler = CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})(handler)
	handler = Themes()(handler)
	handler = ClientID(cfg.CookieDomain)(handler)
	handler = BrowserDetection()(handler)
	if cfg.Compression != nil {
		handler = Compression(*cfg.Compression)(handler)
	}
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

type pageRoutes struct {
	Pages   *PageHandlers
	Guard   *Guard
	Resolve func(http.Handler) http.Handler
}

// registerPageRoutes mounts every entry of the route table. Declared paths match exactly;
// the catch-all entry takes every path nothing else claims.
func registerPageRoutes(mux *http.ServeMux, p pageRoutes) {
	for _, route := range access.Routes() {
		switch {
		case route.CatchAll():
			notFound := p.Guard.Require(route.Policy)(http.HandlerFunc(p.Pages.NotFound))
			mux.Handle("/", p.Resolve(notFound))
		case route.Path == access.RootPath:
			mux.Handle("GET /{$}", p.Resolve(p.Guard.Home(p.Pages.Page(route))))
		default:
			mux.Handle("GET "+route.Path, p.Resolve(p.Guard.Require(route.Policy)(p.Pages.Page(route))))
		}
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, resolve func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.Handle("GET /auth/status", resolve(http.HandlerFunc(h.Status)))
}

// templateFS reads templates from disk in dev mode and from the embedded copy otherwise.
func templateFS(isDev bool) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(farmlytic.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/*, from disk in dev mode and from the embedded copy otherwise.
func staticHandler(isDev bool) http.Handler {
	var root http.FileSystem = http.Dir("frontend/static")
	if !isDev {
		if sub, err := fs.Sub(farmlytic.StaticFS, "frontend/static"); err == nil {
			root = http.FS(sub)
		}
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(root)))
}

//nolint:gochecknoglobals // compiled once
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches content-hashed assets for a year and revalidates everything else.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}
