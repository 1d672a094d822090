package httpx

import "github.com/farmlytic/farmlytic-web/internal/domain/access"

// Cookie names shared by handlers and middleware.
const (
	SessionCookieName = "session_id"
	ClientCookieName  = "farmlytic_client"
	ThemeCookieName   = "farmlytic_theme"
	FlashCookieName   = "farmlytic_flash"

	oauthStateCookie        = "oauth_state"
	oauthNonceCookie        = "oauth_nonce"
	postLoginRedirectCookie = "post_login_redirect"
)

// Cookie lifetimes in seconds.
const (
	oauthCookieMaxAge  = 600
	clientCookieMaxAge = 400 * 24 * 3600
	themeCookieMaxAge  = 365 * 24 * 3600
	flashCookieMaxAge  = 60
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Content templates are keyed by the page a route renders.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[access.Page]string{
	access.PageHome:       "landing-content",
	access.PageLogin:      "login-content",
	access.PageRegister:   "register-content",
	access.PageFields:     "fields-content",
	access.PageCrops:      "crops-content",
	access.PageWeather:    "weather-content",
	access.PageAnalytics:  "analytics-content",
	access.PageFarmer:     "farmer-content",
	access.PageSupplier:   "supplier-content",
	access.PageSpecialist: "specialist-content",
	access.PageNotFound:   "not-found-content",
}

// ContentTemplateFor returns the content template for page.
// Unknown pages fall back to the not-found content.
func ContentTemplateFor(page access.Page) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return "not-found-content"
}
