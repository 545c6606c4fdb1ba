package services

import "errors"

// Sentinel errors returned by the services so handlers can map them to HTTP
// statuses with errors.Is rather than matching message strings.
var (
	// ErrInvalidCredentials covers both unknown accounts and wrong passwords
	// at login, so callers cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified blocks login until the verification link is used.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrAlreadyVerified rejects re-verification of a verified account.
	ErrAlreadyVerified = errors.New("email already verified")
	// ErrWrongPassword is returned when an explicit password check fails.
	ErrWrongPassword = errors.New("password is incorrect")
	// ErrInvalidToken is returned for unknown verification or reset tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrTokenExpired is returned when a reset token is older than its expiry.
	ErrTokenExpired = errors.New("reset token has expired")
	// ErrEmailSend is returned when a transactional email cannot be dispatched.
	ErrEmailSend = errors.New("failed to send email")
)
