package source

import (
	"errors"
	"fmt"
)

// Error definitions for the source package.
var (
	ErrInvalidReference = errors.New("source: invalid model reference")
	ErrUnsupportedKind  = errors.New("source: no fetcher for reference kind")
)

// RequestError reports a failed network request: a non-2xx status or a
// transport failure while sending the request or reading the body.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
