package application

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("email already verified")

	// ErrInvalidOrExpiredToken covers verification and reset tokens that are unknown, consumed or expired.
	ErrInvalidOrExpiredToken    = errors.New("invalid or expired token")
	ErrInvalidVerificationToken = fmt.Errorf("%w: verification", ErrInvalidOrExpiredToken)
	ErrInvalidResetToken        = fmt.Errorf("%w: reset", ErrInvalidOrExpiredToken)

	// Authorization gate
	ErrMissingToken = errors.New("access token required")
	ErrInvalidToken = errors.New("invalid or expired access token")

	// Owned resources. Items of other users read as not found.
	ErrNotFound  = errors.New("item not found")
	ErrInvalidID = errors.New("invalid id format")
)
