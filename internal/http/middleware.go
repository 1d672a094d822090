package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/google/uuid"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover converts handler panics into 500 responses.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type browserRequestKey struct{}

// BrowserDetection records whether the request came from a browser so handlers
// can choose between HTML pages and JSON errors.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest reports the value computed by BrowserDetection, or computes it.
func IsBrowserRequest(r *http.Request) bool {
	if v, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return v
	}
	return isBrowserRequest(r)
}

func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/auth/status") {
		return false
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		return false
	}
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}

// ClientID assigns every browser a long-lived random identifier.
// The identifier keys the last-user record used to detect account switches.
func ClientID(cookieDomain string) func(http.Handler) http.Handler {
	jar := cookieJar{domain: cookieDomain}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookieValue(r, ClientCookieName)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				jar.set(w, r, cookieParams{Name: ClientCookieName, Value: id, MaxAge: clientCookieMaxAge})
			}
			next.ServeHTTP(w, r.WithContext(setClientIDInContext(r.Context(), id)))
		})
	}
}

// StateResolver resolves a session cookie into an auth state.
type StateResolver interface {
	ResolveState(ctx context.Context, sessionID string) domainauth.State
}

// ResolveAuth resolves the session cookie once per request and stores the state in the context.
// A cookie that no longer maps to a session is cleared; a Loading state leaves it untouched.
func ResolveAuth(resolver StateResolver, cookieDomain string) func(http.Handler) http.Handler {
	jar := cookieJar{domain: cookieDomain}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, done := AuthStateFromContext(r.Context()); done {
				next.ServeHTTP(w, r)
				return
			}

			state := domainauth.AnonymousState()
			if sessionID := cookieValue(r, SessionCookieName); sessionID != "" {
				state = resolver.ResolveState(r.Context(), sessionID)
				if !state.Loading && !state.Authenticated {
					jar.clear(w, r, SessionCookieName)
				}
			}
			next.ServeHTTP(w, r.WithContext(SetAuthStateInContext(r.Context(), state)))
		})
	}
}
