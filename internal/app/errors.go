package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrNotConfigured   = errors.New("service providers not configured")
	ErrInvalidArgument = errors.New("invalid argument")
)
