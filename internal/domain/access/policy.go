// Package access holds the routing and access-control policy of the web shell.
// Everything here is pure: decisions are computed from auth state and a path and
// executed by the HTTP layer.
package access

import (
	"slices"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
)

// RootPath is both the home redirector and the fallback destination for unknown roles.
const RootPath = "/"

// LoginPath is where unauthenticated visitors of guarded pages are sent.
const LoginPath = "/login"

// homePaths is the only role to landing page table. Guard and Home both read it.
var homePaths = map[domainauth.Role]string{
	domainauth.RoleFarmer:     "/farmer",
	domainauth.RoleSupplier:   "/supplier",
	domainauth.RoleSpecialist: "/specialist",
}

// HomePath returns the landing page for role, or RootPath when the role is unrecognized.
func HomePath(role domainauth.Role) string {
	if p, ok := homePaths[role]; ok {
		return p
	}
	return RootPath
}

// Kind classifies how a route is protected.
type Kind int

const (
	// KindPublic routes render for everyone.
	KindPublic Kind = iota
	// KindAuthenticated routes render for any signed in user.
	KindAuthenticated
	// KindRoles routes render only for users holding one of the listed roles.
	KindRoles
)

func (k Kind) String() string {
	switch k {
	case KindPublic:
		return "public"
	case KindAuthenticated:
		return "authenticated"
	case KindRoles:
		return "roles"
	default:
		return "unknown"
	}
}

// Policy is the protection attached to a route.
type Policy struct {
	kind  Kind
	roles []domainauth.Role
}

// Public returns a policy without a guard.
func Public() Policy { return Policy{kind: KindPublic} }

// AnyAuthenticated returns a guard with no role restriction.
func AnyAuthenticated() Policy { return Policy{kind: KindAuthenticated} }

// Only returns a guard that admits the listed roles. An empty list is the same as AnyAuthenticated.
func Only(roles ...domainauth.Role) Policy {
	if len(roles) == 0 {
		return AnyAuthenticated()
	}
	set := slices.Clone(roles)
	slices.Sort(set)
	return Policy{kind: KindRoles, roles: slices.Compact(set)}
}

// Kind reports the protection kind.
func (p Policy) Kind() Kind { return p.kind }

// Guarded reports whether the policy requires authentication.
func (p Policy) Guarded() bool { return p.kind != KindPublic }

// Roles returns a copy of the allow-list. It is empty unless Kind is KindRoles.
func (p Policy) Roles() []domainauth.Role { return slices.Clone(p.roles) }

// Allows reports whether role passes the allow-list. Guards without a list allow every role.
func (p Policy) Allows(role domainauth.Role) bool {
	if p.kind != KindRoles {
		return true
	}
	return slices.Contains(p.roles, role)
}
