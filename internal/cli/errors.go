package cli

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrUsage   = errors.New("usage error")
	ErrRequest = errors.New("request failed")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap allows errors.Is(err, ErrRequest).
func (e *APIError) Unwrap() error { return ErrRequest }
