package httpx

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecover_RepanicsAbortHandler(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLogging_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fields", nil))

	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/fields")
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		htmx   bool
		want   bool
	}{
		{name: "html", path: "/fields", accept: "text/html,application/xhtml+xml", want: true},
		{name: "no accept", path: "/fields", want: true},
		{name: "wildcard", path: "/fields", accept: "*/*", want: true},
		{name: "json only", path: "/fields", accept: "application/json", want: false},
		{name: "api path", path: "/api/x", accept: "text/html", want: false},
		{name: "status path", path: "/auth/status", accept: "text/html", want: false},
		{name: "htmx", path: "/fields", accept: "application/json", htmx: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				req.Header.Set("Hx-Request", "true")
			}
			assert.Equal(t, tt.want, IsBrowserRequest(req))
		})
	}
}

func TestClientID_ReplacesInvalidCookie(t *testing.T) {
	var seen string
	h := ClientID("")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ClientIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	c := responseCookie(rec, ClientCookieName)
	require.NotNil(t, c)
	assert.NotEqual(t, "not-a-uuid", c.Value)
	assert.Equal(t, c.Value, seen)
}

type stubResolver struct{ state domainauth.State }

func (s stubResolver) ResolveState(_ context.Context, _ string) domainauth.State { return s.state }

func TestResolveAuth(t *testing.T) {
	tests := []struct {
		name        string
		cookie      bool
		state       domainauth.State
		wantCleared bool
		wantAuthed  bool
	}{
		{name: "no cookie", state: domainauth.AnonymousState()},
		{name: "stale cookie", cookie: true, state: domainauth.AnonymousState(), wantCleared: true},
		{name: "loading keeps cookie", cookie: true, state: domainauth.LoadingState()},
		{name: "authenticated", cookie: true, wantAuthed: true,
			state: domainauth.AuthenticatedState(domainauth.Session{ID: "s", UserID: "u", Role: domainauth.RoleFarmer})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domainauth.State
			h := ResolveAuth(stubResolver{state: tt.state}, "")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = AuthState(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s"})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCleared, responseCookie(rec, SessionCookieName) != nil)
			assert.Equal(t, tt.wantAuthed, got.Authenticated)
		})
	}
}

func TestCompression(t *testing.T) {
	body := strings.Repeat("<p>farm</p>", 200)
	h := Compression(CompressionConfig{Level: 99})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/png":
			w.Header().Set("Content-Type", "image/png")
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
			return
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		_, _ = io.WriteString(w, body)
	}))

	t.Run("gzips html", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "br, gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
		assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		out, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, body, string(out))
	})

	t.Run("skips images", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/png", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, body, rec.Body.String())
	})

	t.Run("skips no content", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/empty", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("Content-Encoding"))
	})

	t.Run("client without gzip", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, body, rec.Body.String())
	})
}

func TestAcceptsGzip(t *testing.T) {
	assert.True(t, acceptsGzip("gzip"))
	assert.True(t, acceptsGzip("deflate, GZIP;q=0.8"))
	assert.False(t, acceptsGzip("gzip;q=0"))
	assert.False(t, acceptsGzip("br"))
	assert.False(t, acceptsGzip(""))
}

func TestCSRFProtection(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, GetCSRFToken(r))
	})
	h := CSRFProtection(CSRFConfig{})(ok)

	t.Run("issues token on get", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		c := responseCookie(rec, CSRFCookieName)
		require.NotNil(t, c)
		assert.False(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, c.Value, rec.Body.String())
	})

	t.Run("rejects post without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(CSRFHeaderName, "anything")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects mismatched header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
		req.Header.Set(CSRFHeaderName, "other")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("accepts header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
		req.Header.Set(CSRFHeaderName, testCSRFToken)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("accepts form field", func(t *testing.T) {
		form := url.Values{CSRFCookieName: {testCSRFToken}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ParseTheme("Dark"))
	assert.Equal(t, ThemeLight, ParseTheme(" light "))
	assert.Equal(t, ThemeSystem, ParseTheme("neon"))
	assert.Equal(t, ThemeSystem, ParseTheme(""))
}

func TestThemeSet(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("returns to referer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=dark"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", "http://example.com/login?from=%2Fcrops")
		req.Header.Set(CSRFHeaderName, testCSRFToken)
		rec := f.do(req, &http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?from=%2Fcrops", rec.Header().Get("Location"))
		assert.Equal(t, "dark", responseCookie(rec, ThemeCookieName).Value)
	})

	t.Run("ignores foreign referer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=light"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", "https://evil.example/phish")
		req.Header.Set(CSRFHeaderName, testCSRFToken)
		rec := f.do(req, &http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})

		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("htmx refreshes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=dark"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Hx-Request", "true")
		req.Header.Set(CSRFHeaderName, testCSRFToken)
		rec := f.do(req, &http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("Hx-Refresh"))
	})

	t.Run("theme reaches the page", func(t *testing.T) {
		rec := f.get("/login", &http.Cookie{Name: ThemeCookieName, Value: "dark"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-theme="dark"`)
	})
}
