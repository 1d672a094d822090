package access

import (
	"slices"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
)

// Page identifies the page a route renders.
type Page string

const (
	PageHome       Page = "home"
	PageLogin      Page = "login"
	PageRegister   Page = "register"
	PageFields     Page = "fields"
	PageCrops      Page = "crops"
	PageWeather    Page = "weather"
	PageAnalytics  Page = "analytics"
	PageFarmer     Page = "farmer"
	PageSupplier   Page = "supplier"
	PageSpecialist Page = "specialist"
	PageNotFound   Page = "not_found"
)

// CatchAllPath is the path of the entry matching everything the table does not declare.
const CatchAllPath = "*"

// Route is one entry of the static route table.
type Route struct {
	Path   string
	Page   Page
	Title  string
	Policy Policy
	// Nav marks pages listed in the signed-in navigation bar.
	Nav bool
}

// CatchAll reports whether the route is the not-found entry.
func (r Route) CatchAll() bool { return r.Path == CatchAllPath }

// routeTable is ordered; the catch-all entry stays last.
var routeTable = []Route{
	{Path: RootPath, Page: PageHome, Title: "Farmlytic", Policy: Public()},
	{Path: LoginPath, Page: PageLogin, Title: "Sign in", Policy: Public()},
	{Path: "/register", Page: PageRegister, Title: "Create account", Policy: Public()},
	{Path: "/fields", Page: PageFields, Title: "Fields", Policy: Only(domainauth.RoleFarmer), Nav: true},
	{Path: "/crops", Page: PageCrops, Title: "Crops", Policy: Only(domainauth.RoleFarmer), Nav: true},
	{Path: "/weather", Page: PageWeather, Title: "Weather", Policy: AnyAuthenticated(), Nav: true},
	{Path: "/analytics", Page: PageAnalytics, Title: "Analytics", Policy: AnyAuthenticated(), Nav: true},
	{Path: "/farmer", Page: PageFarmer, Title: "Farmer dashboard", Policy: Only(domainauth.RoleFarmer)},
	{Path: "/supplier", Page: PageSupplier, Title: "Supplier dashboard", Policy: Only(domainauth.RoleSupplier)},
	{Path: "/specialist", Page: PageSpecialist, Title: "Specialist dashboard", Policy: Only(domainauth.RoleSpecialist)},
	{Path: CatchAllPath, Page: PageNotFound, Title: "Page not found", Policy: Public()},
}

// Routes returns a copy of the route table in declaration order.
func Routes() []Route {
	return slices.Clone(routeTable)
}

// Match returns the declared route for path, or the catch-all entry.
func Match(path string) Route {
	for _, r := range routeTable {
		if !r.CatchAll() && r.Path == path {
			return r
		}
	}
	return routeTable[len(routeTable)-1]
}

// NavFor lists the navigation entries a role may open, in table order.
func NavFor(role domainauth.Role) []Route {
	var out []Route
	for _, r := range routeTable {
		if r.Nav && r.Policy.Allows(role) {
			out = append(out, r)
		}
	}
	return out
}
