package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/farmlytic/farmlytic-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_LoginSetsFlowCookies(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/auth/login?redirect_uri=%2Fcrops")

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://mock-idp/auth", rec.Header().Get("Location"))
	assert.Equal(t, "state-1", responseCookie(rec, oauthStateCookie).Value)
	assert.Equal(t, "nonce-1", responseCookie(rec, oauthNonceCookie).Value)
	assert.Equal(t, "/crops", responseCookie(rec, postLoginRedirectCookie).Value)
	assert.False(t, f.provider.LastBegin().Signup)
}

func TestAuth_LoginRejectsOffsiteRedirect(t *testing.T) {
	f := newRouterFixture(t)

	for _, target := range []string{"https://evil.example", "//evil.example", "/\\evil.example", "crops"} {
		t.Run(target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
			q := req.URL.Query()
			q.Set("redirect_uri", target)
			req.URL.RawQuery = q.Encode()

			rec := f.do(req)

			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/", responseCookie(rec, postLoginRedirectCookie).Value)
		})
	}
}

func TestAuth_SignupStartsRegistration(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/auth/login?signup=1")

	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, f.provider.LastBegin().Signup)
	assert.Equal(t, "https://mock-idp/auth?prompt=create", rec.Header().Get("Location"))
}

func TestAuth_CallbackSignsIn(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/auth/callback?code=abc&state=s1",
		&http.Cookie{Name: oauthStateCookie, Value: "s1"},
		&http.Cookie{Name: oauthNonceCookie, Value: "n1"},
		&http.Cookie{Name: postLoginRedirectCookie, Value: "/crops"},
		clientCookie(),
	)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/crops", rec.Header().Get("Location"))
	session := responseCookie(rec, SessionCookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, 1, f.sessions.Len())

	id, err := f.lastUsers.GetLastUserID(context.Background(), testClientID)
	require.NoError(t, err)
	assert.Equal(t, "mock-farmer-1", id)

	crops := f.get("/crops", &http.Cookie{Name: SessionCookieName, Value: session.Value}, clientCookie())
	assert.Equal(t, http.StatusOK, crops.Code)
}

func TestAuth_CallbackDefaultsToRoot(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.get("/auth/callback?code=abc&state=s1",
		&http.Cookie{Name: oauthStateCookie, Value: "s1"},
		&http.Cookie{Name: oauthNonceCookie, Value: "n1"},
	)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAuth_CallbackAfterAccountSwitchFlashes(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.lastUsers.SetLastUserID(context.Background(), testClientID, "someone-else"))

	rec := f.get("/auth/callback?code=abc&state=s1",
		&http.Cookie{Name: oauthStateCookie, Value: "s1"},
		&http.Cookie{Name: oauthNonceCookie, Value: "n1"},
		clientCookie(),
	)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, `"cache"`, rec.Header().Get("Clear-Site-Data"))
	assert.NotNil(t, responseCookie(rec, FlashCookieName))
	assert.Equal(t, []string{"someone-else"}, f.cache.Purged)
}

func TestAuth_CallbackValidation(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		cookies []*http.Cookie
		wantErr string
	}{
		{name: "missing code", query: "state=s1", wantErr: "missing_code"},
		{name: "missing state", query: "code=abc", wantErr: "missing_state"},
		{name: "state mismatch", query: "code=abc&state=s1",
			cookies: []*http.Cookie{{Name: oauthStateCookie, Value: "other"}}, wantErr: "invalid_state"},
		{name: "missing nonce", query: "code=abc&state=s1",
			cookies: []*http.Cookie{{Name: oauthStateCookie, Value: "s1"}}, wantErr: "missing_nonce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			rec := f.get("/auth/callback?"+tt.query, tt.cookies...)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body["error"])
			assert.Zero(t, f.sessions.Len())
		})
	}
}

func TestAuth_CallbackExchangeFailure(t *testing.T) {
	f := newRouterFixture(t)
	f.provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("nonce mismatch")
	}

	rec := f.get("/auth/callback?code=abc&state=s1",
		&http.Cookie{Name: oauthStateCookie, Value: "s1"},
		&http.Cookie{Name: oauthNonceCookie, Value: "n1"},
	)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, responseCookie(rec, SessionCookieName))
}

func TestAuth_Logout(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, "alice", domainauth.RoleFarmer)

	rec := f.postForm("/auth/logout", "", cookie)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Zero(t, f.sessions.Len())
	assert.Equal(t, -1, responseCookie(rec, SessionCookieName).MaxAge)
	assert.NotNil(t, responseCookie(rec, FlashCookieName))
}

func TestAuth_LogoutHTMX(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, "alice", domainauth.RoleFarmer)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Hx-Request", "true")
	req.Header.Set(CSRFHeaderName, testCSRFToken)
	rec := f.do(req, cookie, &http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "signed out")
}

func TestAuth_LogoutRequiresCSRF(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, "alice", domainauth.RoleFarmer)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := f.do(req, cookie)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuth_Status(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, "alice", domainauth.RoleSupplier)

	t.Run("anonymous", func(t *testing.T) {
		rec := f.get("/auth/status")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"loading":false,"user":null,"home":"/"}`, rec.Body.String())
	})

	t.Run("signed in", func(t *testing.T) {
		rec := f.get("/auth/status", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"authenticated":true,"loading":false,"user":{"id":"alice","role":"supplier"},"home":"/supplier"}`,
			rec.Body.String())
	})

	t.Run("loading", func(t *testing.T) {
		f.sessions.GetErr = errors.New("timeout")
		t.Cleanup(func() { f.sessions.GetErr = nil })

		rec := f.get("/auth/status", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"loading":true,"user":null,"home":"/"}`, rec.Body.String())
	})
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                       "/",
		"/":                      "/",
		"/crops?season=2024":     "/crops?season=2024",
		"https://evil.example/x": "/",
		"//evil.example":         "/",
		"fields":                 "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), in)
	}
}
