package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Stored(t *testing.T) {
	tests := []struct {
		role     Role
		expected string
	}{
		{RoleAdmin, "ROLE_ADMIN"},
		{RoleManager, "ROLE_MANAGER"},
		{RoleDriver, "ROLE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.Stored())
		})
	}
}

func TestParseStoredRole_RoundTrip(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleDriver} {
		parsed, err := ParseStoredRole(role.Stored())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}
}

func TestParseStoredRole_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"missing prefix", "DRIVER"},
		{"empty", ""},
		{"prefix only", "ROLE_"},
		{"unknown role", "ROLE_PILOT"},
		{"extra segment", "ROLE_DRIVER_X"},
		{"wrong prefix", "RULE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStoredRole(tt.stored)
			assert.ErrorIs(t, err, ErrMalformedRole)
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		valid    bool
	}{
		{"driver", RoleDriver, true},
		{"Driver", RoleDriver, true},
		{" MANAGER ", RoleManager, true},
		{"admin", RoleAdmin, true},
		{"operator", "operator", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, ok := ParseRole(tt.input)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.expected, role)
		})
	}
}
