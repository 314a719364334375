package events

import "context"

// Handler is the interface for event handlers.
type Handler interface {
	// Handles returns the list of event types this handler can process.
	Handles() []string

	// Handle processes the given event. A returned error propagates to the
	// dispatcher, which decides whether the event is redelivered.
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc is a function type that implements Handler.
type HandlerFunc struct {
	eventTypes []string
	fn         func(context.Context, Event) error
}

// NewHandlerFunc creates a new HandlerFunc.
func NewHandlerFunc(eventTypes []string, fn func(context.Context, Event) error) *HandlerFunc {
	return &HandlerFunc{
		eventTypes: eventTypes,
		fn:         fn,
	}
}

// Handles returns the list of event types this handler can process.
func (h *HandlerFunc) Handles() []string {
	return h.eventTypes
}

// Handle processes the given event.
func (h *HandlerFunc) Handle(ctx context.Context, event Event) error {
	return h.fn(ctx, event)
}
