package model

import "errors"

var (
	// Authentication stage. All of these short-circuit the request; none are
	// retried. Malformed shapes are 401, everything verified-but-rejected is 403.
	ErrMissingToken     = errors.New("access token required")
	ErrMalformedHeader  = errors.New("invalid authorization header format")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrIdentityInactive = errors.New("user account not found or deactivated")

	// Authorization stage
	ErrInsufficientRole = errors.New("insufficient permissions")

	// Credential and identity errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserHasAuditTrail  = errors.New("user owns audit history")

	// Refresh token errors
	ErrTokenNotFound = errors.New("token not found")

	// Sewadar errors
	ErrSewadarNotFound = errors.New("sewadar not found")
	ErrBadgeConflict   = errors.New("badge number already assigned")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
