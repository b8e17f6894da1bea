package upstream

import "errors"

// Sentinel kinds for provider failures. Provider packages wrap them so callers
// can branch with errors.Is.
var (
	ErrMissingAPIKey = errors.New("missing api key")
	ErrUpstream      = errors.New("upstream request failed")
	ErrNotFound      = errors.New("upstream resource not found")
	ErrDecode        = errors.New("decode upstream payload")
)
