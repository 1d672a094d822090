package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/farmlytic/farmlytic-web/internal/domain/access"
	"github.com/farmlytic/farmlytic-web/internal/service"
)

// BleedObserver detects a different user signing in on the same browser.
type BleedObserver interface {
	Observe(ctx context.Context, clientID, userID string) (service.BleedResult, error)
}

// GuardConfig holds tunables for Guard.
type GuardConfig struct {
	// ClearSiteData asks browsers to drop their HTTP cache after an account switch.
	ClearSiteData bool
	CookieDomain  string
	// Loading renders the placeholder page. Nil writes a plain 503.
	Loading http.Handler
}

// GuardOptions groups dependencies for Guard.
type GuardOptions struct {
	Bleed  BleedObserver // Optional
	Config GuardConfig
	Logger *slog.Logger
}

// Guard executes access decisions for page routes. ResolveAuth must run first.
type Guard struct {
	bleed         BleedObserver
	clearSiteData bool
	loading       http.Handler
	cookies       cookieJar
	logger        *slog.Logger
}

// NewGuard constructs a Guard.
func NewGuard(opts GuardOptions) *Guard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		bleed:         opts.Bleed,
		clearSiteData: opts.Config.ClearSiteData,
		loading:       opts.Config.Loading,
		cookies:       cookieJar{domain: opts.Config.CookieDomain},
		logger:        logger.With("component", "route_guard"),
	}
}

// Require renders next only when policy admits the request's auth state.
// Otherwise it shows the loading placeholder or redirects to the login page or the user's home.
func (g *Guard) Require(policy access.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = g.observe(w, r)
			d := access.Guard(policy, AuthState(r.Context()), r.URL.RequestURI())
			g.respond(w, r, d, next)
		})
	}
}

// Home sends signed-in users to their role home and everyone else to landing.
func (g *Guard) Home(landing http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = g.observe(w, r)
		g.respond(w, r, access.Home(AuthState(r.Context())), landing)
	})
}

func (g *Guard) respond(w http.ResponseWriter, r *http.Request, d access.Decision, render http.Handler) {
	switch d.Outcome {
	case access.OutcomeLoading:
		g.renderLoading(w, r)
	case access.OutcomeRedirectLogin, access.OutcomeRedirectHome:
		if t, ok := pendingToast(r.Context()); ok {
			g.cookies.Flash(w, r, t)
		}
		redirect(w, r, d.Location())
	default:
		render.ServeHTTP(w, r)
	}
}

func (g *Guard) renderLoading(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Retry-After", "1")
	h.Set("Refresh", "1")
	h.Set("Cache-Control", "no-store")
	if g.loading == nil {
		http.Error(w, "Loading, please retry", http.StatusServiceUnavailable)
		return
	}
	g.loading.ServeHTTP(w, r)
}

// observe runs the account-switch check for signed-in requests. When the browser last
// belonged to someone else, their cached state is gone and the browser is told to drop its own.
func (g *Guard) observe(w http.ResponseWriter, r *http.Request) *http.Request {
	state := AuthState(r.Context())
	if !state.Authenticated || state.User == nil {
		return r
	}
	return g.check(w, r, state.User.ID)
}

// ObserveLogin records userID as the browser's user right after sign-in.
// The switch notice is carried to the next page by the flash cookie.
func (g *Guard) ObserveLogin(w http.ResponseWriter, r *http.Request, userID string) {
	r = g.check(w, r, userID)
	if t, ok := pendingToast(r.Context()); ok {
		g.cookies.Flash(w, r, t)
	}
}

func (g *Guard) check(w http.ResponseWriter, r *http.Request, userID string) *http.Request {
	if g.bleed == nil {
		return r
	}
	ctx := r.Context()
	res, err := g.bleed.Observe(ctx, ClientIDFromContext(ctx), userID)
	if err != nil {
		g.logger.WarnContext(ctx, "session bleed check failed", "error", err)
	}
	if !res.Switched {
		return r
	}

	if g.clearSiteData {
		w.Header().Set("Clear-Site-Data", `"cache"`)
	}
	if IsHTMX(r) {
		SetHXRefresh(w)
	}
	return withToast(w, r, Toast{
		Level:   ToastInfo,
		Message: "You switched accounts. Data from the previous account was cleared from this browser.",
	})
}
