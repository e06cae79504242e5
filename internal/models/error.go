package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Identity flow errors
	ErrAccountDisabled       = errors.New("account is disabled")
	ErrTicketInvalid         = errors.New("verification token is invalid or expired")
	ErrAlreadyVerified       = errors.New("email is already verified")
	ErrExternalTokenRejected = errors.New("external identity token rejected")
	ErrSendFailed            = errors.New("verification email could not be sent")
)
