package registry

import "errors"

// Error definitions for the registry package.
// Use errors.Is() to check for specific conditions.
var (
	ErrInvalidID     = errors.New("registry: invalid model identifier")
	ErrModelNotFound = errors.New("registry: model not found")
	ErrNetwork       = errors.New("registry: network error")
	ErrRegistry      = errors.New("registry: invalid registry response")
)
