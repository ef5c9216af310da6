package model

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a transient toast message. It lives until its auto-expiry
// delay elapses or the operator dismisses it, whichever comes first.
type Notification struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// MutationResult is the outcome of a state-changing request against the
// backend: {success,message} as the backend reports it, or a generic
// failure when the backend gave no message.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
