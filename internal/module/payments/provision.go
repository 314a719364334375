package payments

import (
	"context"

	"go.uber.org/zap"

	sharederrors "github.com/paysync/server/internal/shared/errors"
	"github.com/paysync/server/internal/shared/events"
)

// CustomerProvisionHandler reacts to account creation by creating a
// provider customer and storing its id.
//
// No idempotency key is presented to the provider: a redelivered creation
// event creates a duplicate provider-side customer. Creation events are
// assumed to be delivered at most once; the consumer only requeues them
// when this handler fails before the customer id was stored.
type CustomerProvisionHandler struct {
	store    AccountStore
	provider Provider
	logger   *zap.Logger
}

// NewCustomerProvisionHandler creates a new CustomerProvisionHandler.
func NewCustomerProvisionHandler(store AccountStore, provider Provider, logger *zap.Logger) *CustomerProvisionHandler {
	return &CustomerProvisionHandler{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// Handles returns the list of event types this handler can process.
func (h *CustomerProvisionHandler) Handles() []string {
	return []string{events.AccountCreatedType}
}

// Handle processes the given event. Any failure propagates to the
// dispatcher for redelivery; silently dropping it would leave an account
// without a customer record.
func (h *CustomerProvisionHandler) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.AccountCreatedEvent)
	if !ok {
		h.logger.Warn("unhandled event type",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	accountID := e.AccountID()

	cust, err := h.provider.CreateCustomer(ctx, e.Email)
	if err != nil {
		return err
	}

	recordPath := CustomerPath(accountID)
	if err := h.store.Set(ctx, recordPath, CustomerRecord{CustomerID: cust.ID}); err != nil {
		return sharederrors.StoreError(recordPath, err)
	}

	h.logger.Info("provider customer provisioned",
		zap.String("account_id", accountID),
		zap.String("customer_id", cust.ID),
	)
	return nil
}

// Compile-time check that CustomerProvisionHandler implements events.Handler.
var _ events.Handler = (*CustomerProvisionHandler)(nil)
