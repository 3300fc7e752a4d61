package osuapi

import "errors"

// Sentinel kinds for remote API errors.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrEmptyBody        = errors.New("empty response body")
)
