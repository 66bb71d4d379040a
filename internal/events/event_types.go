package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionIssued    EventType = "session_issued"
	EventSessionRefreshed EventType = "session_refreshed"
	EventLoggedOut        EventType = "logged_out"
	EventSessionRevoked   EventType = "session_revoked"
	EventValidationFailed EventType = "validation_failed"
)

// Event represents a session lifecycle event emitted by the token engine.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Identity  string      `json:"identity"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType EventType, identity, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Identity:  identity,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SessionIssuedPayload payload.
type SessionIssuedPayload struct {
	Grant     string    `json:"grant"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidationFailedPayload payload.
type ValidationFailedPayload struct {
	TokenType string `json:"token_type"`
	Reason    string `json:"reason"`
}
