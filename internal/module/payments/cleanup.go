package payments

import (
	"context"

	"go.uber.org/zap"

	sharederrors "github.com/paysync/server/internal/shared/errors"
	"github.com/paysync/server/internal/shared/events"
)

// AccountCleanupHandler reacts to account deletion by deleting the
// provider customer and then removing the account's customer record
// subtree.
//
// No local catch here: a provider delete failure propagates to the
// dispatcher's retry, and the record is left in place so the next attempt
// still finds the customer id.
type AccountCleanupHandler struct {
	store    AccountStore
	provider Provider
	logger   *zap.Logger
}

// NewAccountCleanupHandler creates a new AccountCleanupHandler.
func NewAccountCleanupHandler(store AccountStore, provider Provider, logger *zap.Logger) *AccountCleanupHandler {
	return &AccountCleanupHandler{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// Handles returns the list of event types this handler can process.
func (h *AccountCleanupHandler) Handles() []string {
	return []string{events.AccountDeletedType}
}

// Handle processes the given event.
func (h *AccountCleanupHandler) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.AccountDeletedEvent)
	if !ok {
		h.logger.Warn("unhandled event type",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	accountID := e.AccountID()
	recordPath := CustomerPath(accountID)

	var rec CustomerRecord
	found, err := h.store.Get(ctx, recordPath, &rec)
	if err != nil {
		return sharederrors.StoreError(recordPath, err)
	}
	if !found || rec.CustomerID == "" {
		h.logger.Debug("no customer record for deleted account",
			zap.String("account_id", accountID),
		)
		return nil
	}

	if err := h.provider.DeleteCustomer(ctx, rec.CustomerID); err != nil {
		return err
	}

	if err := h.store.Delete(ctx, recordPath); err != nil {
		return sharederrors.StoreError(recordPath, err)
	}

	h.logger.Info("provider customer removed",
		zap.String("account_id", accountID),
		zap.String("customer_id", rec.CustomerID),
	)
	return nil
}

// Compile-time check that AccountCleanupHandler implements events.Handler.
var _ events.Handler = (*AccountCleanupHandler)(nil)
