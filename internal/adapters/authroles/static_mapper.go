package authroles

import (
	"strings"

	domainauth "github.com/farmlytic/farmlytic-web/internal/domain/auth"
)

// GroupRoleMapper maps IdP groups to Farmlytic roles by exact, case-insensitive membership.
// When a principal holds several role groups the first match in farmer, supplier, specialist order wins.
// No match yields domainauth.RoleNone.
type GroupRoleMapper struct {
	FarmerGroup     string
	SupplierGroup   string
	SpecialistGroup string
}

func (m GroupRoleMapper) Map(groups []string) domainauth.Role {
	rules := []struct {
		group string
		role  domainauth.Role
	}{
		{m.FarmerGroup, domainauth.RoleFarmer},
		{m.SupplierGroup, domainauth.RoleSupplier},
		{m.SpecialistGroup, domainauth.RoleSpecialist},
	}
	for _, rule := range rules {
		if rule.group == "" {
			continue
		}
		for _, g := range groups {
			if strings.EqualFold(strings.TrimSpace(g), rule.group) {
				return rule.role
			}
		}
	}
	return domainauth.RoleNone
}
