package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeNotificationPushed  Type = "notification.pushed"
	TypeNotificationExpired Type = "notification.expired"
	TypeViewRefreshed       Type = "view.refreshed"
	TypeActionCompleted     Type = "action.completed"
	TypeBotStateChanged     Type = "bot.state_changed"
	TypeSessionExpired      Type = "session.expired"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// New stamps an event with an id and the current time.
func New(t Type, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
