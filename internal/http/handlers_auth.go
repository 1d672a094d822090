package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/farmlytic/farmlytic-web/internal/domain/access"
	"github.com/farmlytic/farmlytic-web/internal/service"
)

// AuthServiceInterface defines the auth operations the HTTP layer needs.
type AuthServiceInterface interface {
	StateResolver
	BeginLogin(ctx context.Context, in service.BeginLoginInput) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc    AuthServiceInterface
	Guard  *Guard // Optional: records the signed-in user for account-switch detection
	Logger *slog.Logger

	cookies cookieJar
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts the provider flow. signup=1 asks for the registration screen.
// GET /auth/login?redirect_uri=<optional_redirect>&signup=<optional>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	redirectURI := safeRedirectPath(q.Get("redirect_uri"))
	signup, _ := strconv.ParseBool(q.Get("signup"))

	result, err := h.Svc.BeginLogin(r.Context(), service.BeginLoginInput{RedirectURL: redirectURI, Signup: signup})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	for name, value := range map[string]string{
		oauthStateCookie:        result.State,
		oauthNonceCookie:        result.Nonce,
		postLoginRedirectCookie: redirectURI,
	} {
		h.cookies.set(w, r, cookieParams{Name: name, Value: value, MaxAge: oauthCookieMaxAge})
	}

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the provider flow and signs the user in.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	switch {
	case code == "":
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_code",
			Err: errors.New("authorization code is required")})
		return
	case state == "":
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_state",
			Err: errors.New("state parameter is required")})
		return
	case cookieValue(r, oauthStateCookie) != state:
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_state",
			Err: errors.New("invalid or missing state parameter")})
		return
	}
	nonce := cookieValue(r, oauthNonceCookie)
	if nonce == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_nonce",
			Err: errors.New("missing nonce parameter")})
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{Code: code, State: state, Nonce: nonce})
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_completion_failed", Err: err})
		return
	}

	sess := result.Session
	h.cookies.set(w, r, cookieParams{
		Name:   SessionCookieName,
		Value:  sess.ID,
		MaxAge: int(time.Until(sess.ExpiresAt).Seconds()),
	})
	h.cookies.clear(w, r, oauthStateCookie)
	h.cookies.clear(w, r, oauthNonceCookie)

	if h.Guard != nil {
		h.Guard.ObserveLogin(w, r, sess.UserID)
	}

	redirectURI := safeRedirectPath(cookieValue(r, postLoginRedirectCookie))
	h.cookies.clear(w, r, postLoginRedirectCookie)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// Logout deletes the session and returns to the login page.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := cookieValue(r, SessionCookieName); sessionID != "" {
		if err := h.Svc.Logout(r.Context(), sessionID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.cookies.clear(w, r, SessionCookieName)
	h.cookies.Flash(w, r, Toast{Level: ToastSuccess, Message: "You have been signed out."})
	redirect(w, r, access.LoginPath)
}

// authStatusUser is the user block of the status response.
type authStatusUser struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type authStatus struct {
	Authenticated bool            `json:"authenticated"`
	Loading       bool            `json:"loading"`
	User          *authStatusUser `json:"user"`
	Home          string          `json:"home"`
}

// Status reports the resolved auth state.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	state := AuthState(r.Context())
	out := authStatus{Authenticated: state.Authenticated, Loading: state.Loading, Home: access.RootPath}
	if state.Authenticated && state.User != nil {
		out.User = &authStatusUser{ID: state.User.ID, Role: string(state.User.Role)}
		out.Home = access.HomePath(state.User.Role)
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, out)
}

// safeRedirectPath ensures the redirect is a same-origin relative path. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if safe := access.SafeOrigin(candidate); safe != "" {
		return safe
	}
	return access.RootPath
}
