package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/farmlytic/farmlytic-web/internal/adapters/authroles"
	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	authmocks "github.com/farmlytic/farmlytic-web/internal/mocks/auth"
	"github.com/farmlytic/farmlytic-web/internal/ports"
	"github.com/farmlytic/farmlytic-web/internal/service"
	"github.com/stretchr/testify/require"
)

const (
	testClientID  = "6f1c2b3a-4d5e-4f60-8a7b-9c0d1e2f3a4b"
	testCSRFToken = "csrf-test-token"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// routerFixture wires the real router to in-memory doubles.
type routerFixture struct {
	handler   http.Handler
	provider  *authmocks.MockAuthProvider
	sessions  *authmocks.MemorySessionStore
	lastUsers *authmocks.MemoryLastUserStore
	cache     *authmocks.MemoryScopedCache
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	f := &routerFixture{
		provider:  authmocks.NewMockAuthProvider(),
		sessions:  authmocks.NewMemorySessionStore(),
		lastUsers: authmocks.NewMemoryLastUserStore(),
		cache:     authmocks.NewMemoryScopedCache(),
	}
	logger := discardLogger()
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Ports: service.AuthPorts{
			Provider: f.provider,
			Sessions: f.sessions,
			Roles: authroles.GroupRoleMapper{
				FarmerGroup:     "farmlytic-farmers",
				SupplierGroup:   "farmlytic-suppliers",
				SpecialistGroup: "farmlytic-specialists",
			},
		},
		Logger: logger,
	})
	bleed := service.NewSessionBleedGuard(service.SessionBleedGuardOptions{
		LastUsers: f.lastUsers,
		Caches:    []ports.ScopedCache{f.cache},
		Logger:    logger,
	})
	workspaces := service.NewWorkspaceService(service.WorkspaceServiceOptions{Cache: f.cache, Logger: logger})

	h, err := NewRouter(RouterServices{
		Auth:       authSvc,
		Bleed:      bleed,
		Workspaces: workspaces,
		Config:     RouterConfig{ClearSiteData: true},
		Logger:     logger,
	})
	require.NoError(t, err)
	f.handler = h
	return f
}

// signIn stores a session for userID and returns its cookie.
func (f *routerFixture) signIn(t *testing.T, userID string, role domainauth.Role) *http.Cookie {
	t.Helper()
	sess := domainauth.Session{
		ID:        "sess-" + userID,
		UserID:    userID,
		FirstName: strings.ToUpper(userID[:1]) + userID[1:],
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.sessions.Save(context.Background(), sess))
	return &http.Cookie{Name: SessionCookieName, Value: sess.ID}
}

func clientCookie() *http.Cookie {
	return &http.Cookie{Name: ClientCookieName, Value: testClientID}
}

func (f *routerFixture) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	return f.do(req, cookies...)
}

// postForm sends a CSRF-valid form post.
func (f *routerFixture) postForm(path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.Header.Set(CSRFHeaderName, testCSRFToken)
	cookies = append(cookies, &http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
	return f.do(req, cookies...)
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
