package review

import "errors"

var (
	// ErrMalformedRequest: the body is not valid JSON.
	ErrMalformedRequest = errors.New("malformed request body")
	// ErrInvalidRequest: valid JSON, but not {"code": "<string>"}.
	ErrInvalidRequest = errors.New("invalid request body")
	// ErrRequestTooLarge: the body exceeds the configured limit.
	ErrRequestTooLarge = errors.New("request body too large")
)
