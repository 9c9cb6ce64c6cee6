package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/bissquit/parking-garden/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifier_IssueAndValidate(t *testing.T) {
	v := NewVerifier("secret", "parking")

	token, err := v.Issue("alice", domain.RoleAdmin, time.Minute)
	require.NoError(t, err)

	username, role, err := v.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestVerifier_StoredRoleClaim(t *testing.T) {
	v := NewVerifier("secret", "")
	token := sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":  "bob",
		"role": "ROLE_MANAGER",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})

	username, role, err := v.ValidateToken(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "bob", username)
	assert.Equal(t, domain.RoleManager, role)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("secret", "parking")
	valid := jwt.MapClaims{"sub": "alice", "role": "admin", "iss": "parking", "exp": time.Now().Add(time.Minute).Unix()}

	with := func(key string, value any) jwt.MapClaims {
		c := jwt.MapClaims{}
		for k, v := range valid {
			c[k] = v
		}
		if value == nil {
			delete(c, key)
		} else {
			c[key] = value
		}
		return c
	}

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), valid), ErrInvalidToken},
		{"wrong algorithm", sign(t, jwt.SigningMethodHS512, []byte("secret"), valid), ErrInvalidToken},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte("secret"), with("exp", time.Now().Add(-time.Minute).Unix())), ErrInvalidToken},
		{"wrong issuer", sign(t, jwt.SigningMethodHS256, []byte("secret"), with("iss", "elsewhere")), ErrInvalidToken},
		{"missing subject", sign(t, jwt.SigningMethodHS256, []byte("secret"), with("sub", nil)), ErrMissingClaim},
		{"unknown role", sign(t, jwt.SigningMethodHS256, []byte("secret"), with("role", "pilot")), ErrMissingClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := v.ValidateToken(context.Background(), tt.token)

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
