package domain

import "errors"

// Domain error kinds. Services return these wrapped; handlers translate them
// to HTTP status codes and stable error codes.
var (
	ErrValidation            = errors.New("validation failed")
	ErrEmailTaken            = errors.New("email already registered")
	ErrNoPendingRegistration = errors.New("no pending registration for this email")
	ErrCodeStillValid        = errors.New("current verification code is still valid")
	ErrInvalidOrExpiredCode  = errors.New("invalid or expired verification code")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAccountNotFound       = errors.New("account not found")
	ErrReferralNotFound      = errors.New("referral not found")
	ErrReferralIDExhausted   = errors.New("referral id space exhausted")
)
