package events

import infra "github.com/paysync/server/internal/infra/events"

// Trigger event type constants.
const (
	AccountCreatedType  = "AccountCreated"
	AccountDeletedType  = "AccountDeleted"
	ChargeRequestedType = "ChargeRequested"
	SourceWrittenType   = "SourceWritten"
)

// Event and Handler are re-exported so modules depend on one events package.
type (
	Event   = infra.Event
	Handler = infra.Handler
)

// AccountCreatedEvent fires when the identity service creates an account.
type AccountCreatedEvent struct {
	infra.BaseEvent

	// Email is the new account's email address.
	Email string `json:"email"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent.
func NewAccountCreatedEvent(accountID, email string) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseEvent: infra.NewBaseEvent(AccountCreatedType, accountID),
		Email:     email,
	}
}

// AccountDeletedEvent fires when the identity service deletes an account.
type AccountDeletedEvent struct {
	infra.BaseEvent
}

// NewAccountDeletedEvent creates a new AccountDeletedEvent.
func NewAccountDeletedEvent(accountID string) *AccountDeletedEvent {
	return &AccountDeletedEvent{
		BaseEvent: infra.NewBaseEvent(AccountDeletedType, accountID),
	}
}

// ChargeRequestedEvent fires when a client writes a charge request under
// an account. ChargeID doubles as the provider idempotency key, so a
// redelivered event cannot charge twice.
type ChargeRequestedEvent struct {
	infra.BaseEvent

	// ChargeID is the caller-supplied unique identifier of the request.
	ChargeID string `json:"charge_id"`

	// Amount is the charge amount in minor currency units.
	Amount int64 `json:"amount"`

	// Source is an optional payment source token. Nil means the customer's
	// default source is charged.
	Source *string `json:"source,omitempty"`
}

// NewChargeRequestedEvent creates a new ChargeRequestedEvent.
func NewChargeRequestedEvent(accountID, chargeID string, amount int64, source *string) *ChargeRequestedEvent {
	return &ChargeRequestedEvent{
		BaseEvent: infra.NewBaseEvent(ChargeRequestedType, accountID),
		ChargeID:  chargeID,
		Amount:    amount,
		Source:    source,
	}
}

// SourceWrittenEvent fires on any write (create or update) of a payment
// source token under an account. A nil Token means the token was removed.
type SourceWrittenEvent struct {
	infra.BaseEvent

	// SourceID identifies the source record under the account.
	SourceID string `json:"source_id"`

	// Token is the written token value, nil when the token was deleted.
	Token *string `json:"token"`
}

// NewSourceWrittenEvent creates a new SourceWrittenEvent.
func NewSourceWrittenEvent(accountID, sourceID string, token *string) *SourceWrittenEvent {
	return &SourceWrittenEvent{
		BaseEvent: infra.NewBaseEvent(SourceWrittenType, accountID),
		SourceID:  sourceID,
		Token:     token,
	}
}
