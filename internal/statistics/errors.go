package statistics

import "errors"

// Validation errors.
var (
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
	ErrInvalidLimit    = errors.New("limit must be between 1 and 100")
)
