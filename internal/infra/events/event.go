package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the interface that all trigger events must implement.
type Event interface {
	// EventID returns the unique identifier for this event instance.
	EventID() uuid.UUID

	// EventType returns the type name of the event (e.g., "ChargeRequested").
	EventType() string

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AccountID returns the opaque account id the event is scoped to.
	AccountID() string
}

// BaseEvent provides a base implementation of the Event interface.
// Embed this struct in trigger events to inherit common fields.
type BaseEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Account   string    `json:"account_id"`
}

// EventID returns the unique identifier for this event instance.
func (e BaseEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type name of the event.
func (e BaseEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AccountID returns the opaque account id the event is scoped to.
func (e BaseEvent) AccountID() string {
	return e.Account
}

// NewBaseEvent creates a new BaseEvent with the given parameters.
func NewBaseEvent(eventType, accountID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		Account:   accountID,
	}
}
