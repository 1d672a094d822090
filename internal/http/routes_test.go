package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farmlytic/farmlytic-web/internal/domain/access"
	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_UnknownPathRendersNotFound(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/nope", "/fields/extra", "/Farmer", "/login/"} {
		t.Run(path, func(t *testing.T) {
			rec := f.get(path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "Page not found")
		})
	}
}

func TestRouter_UnknownPathJSONForAPIClients(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set("Accept", "application/json")
	rec := f.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"error":"not_found","message":"the requested resource was not found"}`, rec.Body.String())
}

func TestRouter_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		role     domainauth.Role
		signedIn bool
		path     string
		wantCode int
		wantLoc  string
	}{
		{name: "farmer visits supplier", signedIn: true, role: domainauth.RoleFarmer, path: "/supplier",
			wantCode: http.StatusSeeOther, wantLoc: "/farmer"},
		{name: "anonymous visits crops", path: "/crops",
			wantCode: http.StatusSeeOther, wantLoc: "/login?from=%2Fcrops"},
		{name: "specialist visits weather", signedIn: true, role: domainauth.RoleSpecialist, path: "/weather",
			wantCode: http.StatusOK},
		{name: "supplier visits root", signedIn: true, role: domainauth.RoleSupplier, path: "/",
			wantCode: http.StatusSeeOther, wantLoc: "/supplier"},
		{name: "anonymous visits root", path: "/", wantCode: http.StatusOK},
		{name: "anonymous visits login", path: "/login", wantCode: http.StatusOK},
		{name: "anonymous visits register", path: "/register", wantCode: http.StatusOK},
		{name: "farmer visits fields", signedIn: true, role: domainauth.RoleFarmer, path: "/fields",
			wantCode: http.StatusOK},
		{name: "supplier visits crops", signedIn: true, role: domainauth.RoleSupplier, path: "/crops",
			wantCode: http.StatusSeeOther, wantLoc: "/supplier"},
		{name: "roleless user visits farmer", signedIn: true, role: domainauth.RoleNone, path: "/farmer",
			wantCode: http.StatusSeeOther, wantLoc: "/"},
		{name: "roleless user visits root", signedIn: true, role: domainauth.RoleNone, path: "/",
			wantCode: http.StatusOK},
		{name: "anonymous with query", path: "/analytics?season=2024",
			wantCode: http.StatusSeeOther, wantLoc: "/login?from=%2Fanalytics%3Fseason%3D2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			var cookies []*http.Cookie
			if tt.signedIn {
				cookies = append(cookies, f.signIn(t, "user-1", tt.role))
			}

			rec := f.get(tt.path, cookies...)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestRouter_LoginOriginRecoverable(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/crops")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/crops", access.LoginOrigin(rec.Header().Get("Location")))

	login := f.get(rec.Header().Get("Location"))
	require.Equal(t, http.StatusOK, login.Code)
	assert.Contains(t, login.Body.String(), "redirect_uri=%2fcrops")
}

func TestRouter_LoadingShowsPlaceholder(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, "user-1", domainauth.RoleFarmer)
	f.sessions.GetErr = errors.New("redis: connection refused")

	for _, path := range []string{"/", "/fields", "/supplier", "/weather"} {
		t.Run(path, func(t *testing.T) {
			rec := f.get(path, cookie)

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.Equal(t, "1", rec.Header().Get("Retry-After"))
			assert.Equal(t, "1", rec.Header().Get("Refresh"))
			assert.Contains(t, rec.Body.String(), "Checking your session")
			assert.Nil(t, responseCookie(rec, SessionCookieName), "session cookie must survive an outage")
		})
	}
}

func TestRouter_LoadingDoesNotBlockPublicPages(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, "user-1", domainauth.RoleFarmer)
	f.sessions.GetErr = errors.New("timeout")

	rec := f.get("/login", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_HTMXRedirectUsesHeader(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/fields", nil)
	req.Header.Set("Hx-Request", "true")
	rec := f.do(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/login?from=%2Ffields", rec.Header().Get("Hx-Redirect"))
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestRouter_HTMXRendersPartial(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, "user-1", domainauth.RoleFarmer)

	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	req.Header.Set("Hx-Request", "true")
	rec := f.do(req, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<main id="main"`)
	assert.NotContains(t, body, "<!DOCTYPE html>")
}

func TestRouter_StaleSessionCookieCleared(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/weather", &http.Cookie{Name: SessionCookieName, Value: "gone"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	c := responseCookie(rec, SessionCookieName)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}

func TestRouter_SignedInNavFollowsRole(t *testing.T) {
	f := newRouterFixture(t)

	farmer := f.get("/weather", f.signIn(t, "farmer-1", domainauth.RoleFarmer))
	require.Equal(t, http.StatusOK, farmer.Code)
	assert.Contains(t, farmer.Body.String(), `href="/fields"`)

	supplier := f.get("/weather", f.signIn(t, "supplier-1", domainauth.RoleSupplier))
	require.Equal(t, http.StatusOK, supplier.Code)
	assert.NotContains(t, supplier.Body.String(), `href="/fields"`)
	assert.Contains(t, supplier.Body.String(), `href="/supplier"`)
}

func TestRouter_AssignsClientID(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/")
	c := responseCookie(rec, ClientCookieName)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)

	rec = f.get("/", clientCookie())
	assert.Nil(t, responseCookie(rec, ClientCookieName))
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, healthResponse, rec.Body.String())
}

func TestRouter_StaticAssets(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/static/css/app.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestRouter_RequiresAuthService(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	assert.Error(t, err)
}
