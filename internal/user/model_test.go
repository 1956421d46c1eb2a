package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoles(t *testing.T) {
	roles := ParseRoles("employee, Manager ,ADMIN,,")

	assert.Len(t, roles, 3)
	assert.True(t, roles.Has(RoleEmployee))
	assert.True(t, roles.Has(RoleManager))
	assert.True(t, roles.Has(RoleAdmin))
	assert.False(t, roles.Has(RoleVendor))
}

func TestCanOverrideStock(t *testing.T) {
	manager := &User{Roles: Roles{RoleEmployee, RoleManager}}
	admin := &User{Roles: Roles{RoleAdmin}}
	employee := &User{Roles: Roles{RoleEmployee}}

	assert.True(t, manager.CanOverrideStock())
	assert.True(t, admin.CanOverrideStock())
	assert.False(t, employee.CanOverrideStock())

	var nobody *User
	assert.False(t, nobody.CanOverrideStock())
	assert.False(t, nobody.IsManager())
}

func TestRolesRoundTrip(t *testing.T) {
	roles := ParseRoles("CUSTOMER,VENDOR")
	assert.Equal(t, "CUSTOMER,VENDOR", roles.String())
}
