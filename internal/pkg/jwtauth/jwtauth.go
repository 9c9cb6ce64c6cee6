// Package jwtauth verifies HS256 bearer tokens issued by the auth service.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bissquit/parking-garden/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Token errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingClaim = errors.New("missing claim")
)

// Claims carried by platform tokens. The subject is the account username.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a verifier. An empty issuer disables the issuer check.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// ValidateToken returns the username and role carried by a valid token.
// The role claim may be bare ("admin") or stored form ("ROLE_ADMIN").
func (v *Verifier) ValidateToken(_ context.Context, token string) (string, domain.Role, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		if role, err = domain.ParseStoredRole(claims.Role); err != nil {
			return "", "", fmt.Errorf("%w: role", ErrMissingClaim)
		}
	}

	return claims.Subject, role, nil
}

// Issue signs a token for username with the given role and lifetime.
// Production tokens come from the auth service; Issue exists for tests and
// local fixtures that need a token this Verifier accepts.
func (v *Verifier) Issue(username string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
