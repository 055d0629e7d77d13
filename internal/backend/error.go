package backend

import "errors"

// Error definitions for the backend package.
var (
	ErrBinaryNotFound = errors.New("backend binary not found")
	ErrBridgeFailed   = errors.New("framework bridge failed")
	ErrBadResponse    = errors.New("framework bridge returned an invalid response")
)
