// Package apierror defines the error envelope returned by the console's
// fragment and action endpoints.
package apierror

import "fmt"

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Common console errors.
func Unauthorized() *APIError {
	return New("UNAUTHORIZED", "Session is missing or expired", "", 401)
}

func NotFound(what string) *APIError {
	return New("NOT_FOUND", what+" not found", "", 404)
}

func BadRequest(details string) *APIError {
	return New("BAD_REQUEST", "Invalid request", details, 400)
}

func ConfirmationRequired() *APIError {
	return New("CONFIRMATION_REQUIRED", "This action must be confirmed first", "", 409)
}

func Upstream(details string) *APIError {
	return New("UPSTREAM_ERROR", "Backend request failed", details, 502)
}
