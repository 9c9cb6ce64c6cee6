package accounts

import "errors"

// Repository errors.
var (
	ErrAccountNotFound          = errors.New("account not found")
	ErrUsernameExists           = errors.New("username already exists")
	ErrDriverAttributesNotFound = errors.New("driver attributes not found")
)

// Validation errors.
var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidPassword = errors.New("password must be 1 to 72 bytes")
)
