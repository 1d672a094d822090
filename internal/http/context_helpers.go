package httpx

import (
	"context"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
)

// Unexported context key types avoid collisions across packages.
type (
	authStateKey struct{}
	clientIDKey  struct{}
	themeKey     struct{}
	toastKey     struct{}
)

// SetAuthStateInContext returns a child context carrying the resolved auth state.
func SetAuthStateInContext(ctx context.Context, state domainauth.State) context.Context {
	return context.WithValue(ctx, authStateKey{}, state)
}

// AuthStateFromContext returns the resolved auth state and whether ResolveAuth ran for this request.
func AuthStateFromContext(ctx context.Context) (domainauth.State, bool) {
	state, ok := ctx.Value(authStateKey{}).(domainauth.State)
	return state, ok
}

// AuthState returns the resolved auth state, or the anonymous state when none was resolved.
func AuthState(ctx context.Context) domainauth.State {
	if state, ok := AuthStateFromContext(ctx); ok {
		return state
	}
	return domainauth.AnonymousState()
}

// GetSessionFromContext returns the session of the signed-in user, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	state := AuthState(ctx)
	if !state.Authenticated {
		return nil
	}
	return state.Session
}

func setClientIDInContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientIDFromContext returns the browser client identifier assigned by the ClientID middleware.
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}

func setThemeInContext(ctx context.Context, theme Theme) context.Context {
	return context.WithValue(ctx, themeKey{}, theme)
}

// ThemeFromContext returns the theme chosen by the browser, defaulting to ThemeSystem.
func ThemeFromContext(ctx context.Context) Theme {
	if theme, ok := ctx.Value(themeKey{}).(Theme); ok {
		return theme
	}
	return ThemeSystem
}

func setToastInContext(ctx context.Context, t Toast) context.Context {
	return context.WithValue(ctx, toastKey{}, t)
}

// pendingToast returns a toast raised earlier in the same request.
func pendingToast(ctx context.Context) (Toast, bool) {
	t, ok := ctx.Value(toastKey{}).(Toast)
	return t, ok
}
