package user

import "strings"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleVendor   Role = "VENDOR"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// Roles is a capability set. It is deserialized once per request; checks
// are plain membership tests.
type Roles []Role

// ParseRoles deserializes a stored comma-separated role list.
func ParseRoles(s string) Roles {
	parts := strings.Split(s, ",")
	roles := make(Roles, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		roles = append(roles, Role(p))
	}
	return roles
}

func (r Roles) Has(role Role) bool {
	for _, have := range r {
		if have == role {
			return true
		}
	}
	return false
}

func (r Roles) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}
	return false
}

func (r Roles) String() string {
	parts := make([]string, len(r))
	for i, role := range r {
		parts[i] = string(role)
	}
	return strings.Join(parts, ",")
}

type User struct {
	ID         int
	Identifier string
	Email      string
	Name       string
	Roles      Roles
}

func (u *User) IsManager() bool { return u != nil && u.Roles.Has(RoleManager) }

func (u *User) IsAdmin() bool { return u != nil && u.Roles.Has(RoleAdmin) }

// CanOverrideStock reports whether u may bypass the stock-sufficiency
// check at checkout.
func (u *User) CanOverrideStock() bool {
	return u != nil && u.Roles.HasAny(RoleManager, RoleAdmin)
}
