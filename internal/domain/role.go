package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role represents the access class of an account.
type Role string

// Account roles.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleDriver  Role = "driver"
)

// storedRolePrefix is prepended to the upper-cased role in persisted form.
const storedRolePrefix = "ROLE_"

// ErrMalformedRole is returned when a persisted role does not follow the ROLE_<ROLE> form.
var ErrMalformedRole = errors.New("malformed stored role")

// Casers are stateful and must not be shared between goroutines.
func toUpper(s string) string { return cases.Upper(language.Und).String(s) }
func toLower(s string) string { return cases.Lower(language.Und).String(s) }

// IsValid checks if the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDriver:
		return true
	}
	return false
}

// Stored returns the persisted form of the role, e.g. "ROLE_DRIVER".
func (r Role) Stored() string {
	return storedRolePrefix + toUpper(string(r))
}

// ParseRole normalizes caller input ("Driver", " admin ") into a Role.
func ParseRole(s string) (Role, bool) {
	role := Role(toLower(strings.TrimSpace(s)))
	return role, role.IsValid()
}

// ParseStoredRole converts a persisted role back into its bare form.
func ParseStoredRole(stored string) (Role, error) {
	bare, ok := strings.CutPrefix(stored, storedRolePrefix)
	if !ok || bare == "" || strings.Contains(bare, "_") {
		return "", fmt.Errorf("%w: %q", ErrMalformedRole, stored)
	}

	role := Role(toLower(bare))
	if !role.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrMalformedRole, stored)
	}
	return role, nil
}
