package httpx

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/farmlytic/farmlytic-web/internal/domain/access"
)

// Theme is the colour scheme a browser asked for.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme maps s to a Theme. Unknown values yield ThemeSystem.
func ParseTheme(s string) Theme {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t
	default:
		return ThemeSystem
	}
}

// Themes reads the theme cookie into the request context.
func Themes() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			theme := ParseTheme(cookieValue(r, ThemeCookieName))
			next.ServeHTTP(w, r.WithContext(setThemeInContext(r.Context(), theme)))
		})
	}
}

// ThemeHandlers serves the theme switcher.
type ThemeHandlers struct {
	cookies cookieJar
}

// Set stores the posted theme and sends the browser back to the page it came from.
// POST /theme.
func (h *ThemeHandlers) Set(w http.ResponseWriter, r *http.Request) {
	theme := ParseTheme(r.FormValue("theme"))
	h.cookies.set(w, r, cookieParams{
		Name:   ThemeCookieName,
		Value:  string(theme),
		MaxAge: themeCookieMaxAge,
	})

	if IsHTMX(r) {
		SetHXRefresh(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath picks the page a form post came from, preferring htmx's current URL over Referer.
func returnPath(r *http.Request) string {
	for _, candidate := range []string{r.Header.Get("Hx-Current-Url"), r.Referer()} {
		if candidate == "" {
			continue
		}
		u, err := url.Parse(candidate)
		if err != nil || (u.Host != "" && u.Host != r.Host) {
			continue
		}
		path := u.EscapedPath()
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		if safe := access.SafeOrigin(path); safe != "" {
			return safe
		}
	}
	return "/"
}
