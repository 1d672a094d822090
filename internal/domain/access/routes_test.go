package access

import (
	"testing"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes_CatchAllIsLastAndUnique(t *testing.T) {
	routes := Routes()
	require.NotEmpty(t, routes)
	assert.True(t, routes[len(routes)-1].CatchAll())
	for _, r := range routes[:len(routes)-1] {
		assert.False(t, r.CatchAll(), r.Path)
	}
}

func TestRoutes_ReturnsCopy(t *testing.T) {
	routes := Routes()
	routes[0].Path = "/changed"
	assert.Equal(t, "/", Routes()[0].Path)
}

func TestRoutes_AllowLists(t *testing.T) {
	farmer := []domainauth.Role{domainauth.RoleFarmer}
	tests := []struct {
		path  string
		kind  Kind
		roles []domainauth.Role
	}{
		{"/", KindPublic, nil},
		{"/login", KindPublic, nil},
		{"/register", KindPublic, nil},
		{"/fields", KindRoles, farmer},
		{"/crops", KindRoles, farmer},
		{"/weather", KindAuthenticated, nil},
		{"/analytics", KindAuthenticated, nil},
		{"/farmer", KindRoles, farmer},
		{"/supplier", KindRoles, []domainauth.Role{domainauth.RoleSupplier}},
		{"/specialist", KindRoles, []domainauth.Role{domainauth.RoleSpecialist}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := Match(tt.path)
			require.False(t, r.CatchAll())
			assert.Equal(t, tt.kind, r.Policy.Kind())
			if tt.roles == nil {
				assert.Empty(t, r.Policy.Roles())
			} else {
				assert.Equal(t, tt.roles, r.Policy.Roles())
			}
		})
	}
}

func TestMatch_UnknownPathsHitNotFound(t *testing.T) {
	for _, p := range []string{"/nope", "/fields/1", "/Farmer", "", "/login/"} {
		assert.Equal(t, PageNotFound, Match(p).Page, p)
	}
}

func TestOnly_EmptyIsAnyAuthenticated(t *testing.T) {
	assert.Equal(t, KindAuthenticated, Only().Kind())
	p := Only(domainauth.RoleSupplier, domainauth.RoleFarmer, domainauth.RoleFarmer)
	assert.Equal(t, []domainauth.Role{domainauth.RoleFarmer, domainauth.RoleSupplier}, p.Roles())
}

func TestNavFor(t *testing.T) {
	pages := func(rs []Route) []Page {
		out := make([]Page, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Page)
		}
		return out
	}
	assert.Equal(t, []Page{PageFields, PageCrops, PageWeather, PageAnalytics}, pages(NavFor(domainauth.RoleFarmer)))
	assert.Equal(t, []Page{PageWeather, PageAnalytics}, pages(NavFor(domainauth.RoleSupplier)))
}
