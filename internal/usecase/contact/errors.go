package contact

import "errors"

// Sentinel errors used by contact usecases.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrContactNotFound = errors.New("contact not found")
)
