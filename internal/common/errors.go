// Package common defines shared constants and sentinel errors used across
// client and server layers of the portal. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors. ErrMissingToken is a control-flow signal (redirect to
	// login), not a retryable failure. ErrInvalidToken covers both a bad
	// signature and an expired token; the two are intentionally not
	// distinguishable by callers.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden is an authorization denial for an authenticated identity.
	ErrForbidden = errors.New("forbidden")

	// Document lifecycle errors.
	ErrGenerationFailed    = errors.New("document generation failed")
	ErrUpstreamUnavailable = errors.New("storage service unavailable")
)
