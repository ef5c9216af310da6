package model

import "errors"

var (
	// Session related errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")

	// Backend request errors
	ErrRequestFailed = errors.New("request failed")
	ErrNotFound      = errors.New("not found")

	// Mutation errors
	ErrConfirmationRequired = errors.New("confirmation required")

	// Query errors
	ErrPageOutOfRange = errors.New("page out of range")
	ErrUnknownView    = errors.New("unknown view")
	ErrUnknownAction  = errors.New("unknown action")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
