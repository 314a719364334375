package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/paysync/server/internal/utils/metrics"
)

// Bus is a simple synchronous event bus for trigger events.
// It dispatches events to registered handlers synchronously.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewBus creates a new event bus. metrics may be nil.
func NewBus(logger *zap.Logger, m *metrics.Metrics) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
		metrics:  m,
	}
}

// Register registers a handler for the events it handles.
func (b *Bus) Register(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range handler.Handles() {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
		b.logger.Debug("registered event handler",
			zap.String("event_type", eventType),
		)
	}
}

// Publish dispatches an event to all registered handlers in registration
// order. All handlers run even if an earlier one fails; the joined error is
// returned so the dispatcher can decide whether to redeliver the event.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.EventType()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers registered for event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return nil
	}

	b.logger.Info("dispatching event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("account_id", event.AccountID()),
		zap.Int("handler_count", len(handlers)),
	)

	var errs []error
	for _, handler := range handlers {
		err := handler.Handle(ctx, event)
		if b.metrics != nil {
			b.metrics.ObserveEvent(event.EventType(), err)
		}
		if err != nil {
			b.logger.Error("event handler failed",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.String("account_id", event.AccountID()),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
