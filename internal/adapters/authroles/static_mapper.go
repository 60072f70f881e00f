// Package authroles maps identity provider groups to console roles.
package authroles

import (
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
)

// StaticRoleMapper maps groups by simple string membership rules.
// AdminGroup always wins; otherwise the highest-ranked role found in Groups is used.
type StaticRoleMapper struct {
	AdminGroup string
	Groups     map[string]domainauth.Role
}

// NewStaticRoleMapper builds a mapper from config values, dropping entries with unknown roles.
func NewStaticRoleMapper(adminGroup string, groups map[string]string) StaticRoleMapper {
	m := StaticRoleMapper{AdminGroup: adminGroup, Groups: make(map[string]domainauth.Role, len(groups))}
	for g, r := range groups {
		if role := domainauth.Role(r); role.Valid() {
			m.Groups[g] = role
		}
	}
	return m
}

// rank orders roles by privilege, lower is stronger.
func rank(r domainauth.Role) int {
	for i, v := range domainauth.Roles() {
		if v == r {
			return i
		}
	}
	return len(domainauth.Roles())
}

func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, bool) {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin, true
		}
	}
	var best domainauth.Role
	found := false
	for _, g := range groups {
		role, ok := m.Groups[g]
		if !ok {
			continue
		}
		if !found || rank(role) < rank(best) {
			best, found = role, true
		}
	}
	return best, found
}
