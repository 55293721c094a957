package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
)

// API scopes carried in admin access tokens.
const (
	ScopeUsersRead   = "users:read"
	ScopeUsersWrite  = "users:write"
	ScopePanelsWrite = "panels:write"
	ScopeAdminsWrite = "admins:write"
)

// Scopes returns the API scopes granted to r.
func (r Role) Scopes() []string {
	switch r {
	case RoleSuperadmin:
		return []string{ScopeUsersRead, ScopeUsersWrite, ScopePanelsWrite, ScopeAdminsWrite}
	case RoleAdmin:
		return []string{ScopeUsersRead, ScopeUsersWrite}
	default:
		return nil
	}
}

// ParseRole accepts a role name, defaulting to RoleAdmin when empty.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleAdmin:
		return RoleAdmin, nil
	case RoleSuperadmin:
		return RoleSuperadmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
