package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	// Callable on a plain value, not just an addressable variable.
	assert.Equal(t, "jeff", User{Email: "jeff@transitland.com"}.DisplayName())
	assert.Equal(t, "no-at-sign", User{Email: "no-at-sign"}.DisplayName())
	assert.Equal(t, "", User{}.DisplayName())
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleOperationManager))
	assert.True(t, IsValidRole(RoleMaintenance))
	assert.False(t, IsValidRole(Role("Admin")))
	assert.False(t, IsValidRole(Role("")))
}
