package service

import "errors"

// Reasons carried inside Unauthorized errors. The HTTP layer logs them and
// answers every one with the same body.
var (
	ErrMissingIdentity      = errors.New("identity is required")
	ErrMissingToken         = errors.New("token is required")
	ErrMissingBearerToken   = errors.New("bearer token is required")
	ErrTokenInvalidated     = errors.New("token has been invalidated")
	ErrTokenMismatch        = errors.New("token mismatch")
	ErrIdentityMismatch     = errors.New("identity mismatch")
	ErrAuthenticationFailed = errors.New("failed to authenticate")
)
