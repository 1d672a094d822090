package httpx

import (
	"net/http"
	"strings"
	"time"
)

// cookieJar writes cookies scoped to the configured domain.
type cookieJar struct {
	domain string
}

// cookieParams groups the attributes that vary between the cookies we set.
type cookieParams struct {
	Name   string
	Value  string
	MaxAge int
	// Script makes the cookie readable from JavaScript.
	Script bool
}

func (c cookieJar) set(w http.ResponseWriter, r *http.Request, p cookieParams) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    p.Value,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: !p.Script,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   p.MaxAge,
	})
}

// clear expires a cookie, mirroring the attributes used when it was set.
func (c cookieJar) clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// isForwardedHTTPS checks X-Forwarded-Proto, which may hold a comma-separated list.
func isForwardedHTTPS(r *http.Request) bool {
	xfProto := r.Header.Get("X-Forwarded-Proto")
	if xfProto == "" {
		return false
	}
	for _, proto := range strings.Split(xfProto, ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
