package access

import (
	"net/url"
	"strings"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
)

// Outcome is the single result of a guard or home evaluation.
type Outcome int

const (
	// OutcomeLoading means auth state is still resolving; show a placeholder and do not redirect.
	OutcomeLoading Outcome = iota
	// OutcomeRedirectLogin sends the visitor to the login page, carrying the origin.
	OutcomeRedirectLogin
	// OutcomeRedirectHome sends the user to their role landing page.
	OutcomeRedirectHome
	// OutcomeRender renders the requested page.
	OutcomeRender
	// OutcomeLanding renders the public landing page.
	OutcomeLanding
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRedirectLogin:
		return "redirect_login"
	case OutcomeRedirectHome:
		return "redirect_home"
	case OutcomeRender:
		return "render"
	case OutcomeLanding:
		return "landing"
	default:
		return "unknown"
	}
}

// Decision is what the HTTP layer must do for one request.
// Target is set for redirects; From carries the originating location for login redirects.
type Decision struct {
	Outcome Outcome
	Target  string
	From    string
}

// IsRedirect reports whether the decision navigates away from the requested page.
func (d Decision) IsRedirect() bool {
	return d.Outcome == OutcomeRedirectLogin || d.Outcome == OutcomeRedirectHome
}

// Location returns the URL to send the browser to. Login redirects carry the origin as ?from=.
func (d Decision) Location() string {
	if d.Outcome != OutcomeRedirectLogin || d.From == "" {
		return d.Target
	}
	return d.Target + "?" + url.Values{"from": {d.From}}.Encode()
}

// Guard evaluates policy against state for a request to location.
// Exactly one outcome is produced for every combination of inputs.
func Guard(policy Policy, state domainauth.State, location string) Decision {
	if !policy.Guarded() {
		return Decision{Outcome: OutcomeRender}
	}
	if state.Loading {
		return Decision{Outcome: OutcomeLoading}
	}
	if !state.Authenticated || state.User == nil {
		return Decision{Outcome: OutcomeRedirectLogin, Target: LoginPath, From: location}
	}
	if !policy.Allows(state.User.Role) {
		return Decision{Outcome: OutcomeRedirectHome, Target: HomePath(state.User.Role)}
	}
	return Decision{Outcome: OutcomeRender}
}

// Home picks the destination for the site root.
func Home(state domainauth.State) Decision {
	if state.Loading {
		return Decision{Outcome: OutcomeLoading}
	}
	if !state.Authenticated || state.User == nil {
		return Decision{Outcome: OutcomeLanding}
	}
	target := HomePath(state.User.Role)
	if target == RootPath {
		return Decision{Outcome: OutcomeLanding}
	}
	return Decision{Outcome: OutcomeRedirectHome, Target: target}
}

// LoginOrigin extracts the originating location from a login redirect URL.
// Only same-site relative paths are returned; anything else yields "".
func LoginOrigin(loginURL string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return ""
	}
	return SafeOrigin(u.Query().Get("from"))
}

// SafeOrigin returns from when it is a same-site relative path, and "" otherwise.
func SafeOrigin(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") ||
		strings.Contains(from, "\\") {
		return ""
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return from
}
