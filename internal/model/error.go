package model

import "errors"

// Error definitions for the model package.
var (
	ErrModelFileNotFound = errors.New("model file does not exist")
	ErrModelKeyNotFound  = errors.New("model key not found in loaded models")
	ErrFormatNotFound    = errors.New("no loader registered for file kind")
	ErrAlreadyRegistered = errors.New("loader is already registered for file kind")
)
