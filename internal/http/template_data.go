package httpx

import (
	"github.com/farmlytic/farmlytic-web/internal/domain/access"
	"github.com/farmlytic/farmlytic-web/internal/service"
)

// PageData is the view model every page template receives.
type PageData struct {
	Title       string
	CurrentPage access.Page
	Path        string
	Theme       Theme
	CSRFToken   string
	Toast       *Toast

	// Workspace is set for signed-in users.
	Workspace *service.Workspace

	// From is the page a login was started from (login and register pages only).
	From string
}

// SignedIn reports whether the page is rendered for a signed-in user.
func (d PageData) SignedIn() bool { return d.Workspace != nil }

// Themes lists the options of the theme switcher.
func (d PageData) Themes() []Theme { return []Theme{ThemeSystem, ThemeLight, ThemeDark} }
