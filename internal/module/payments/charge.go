package payments

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	sharederrors "github.com/paysync/server/internal/shared/errors"
	"github.com/paysync/server/internal/shared/events"
)

// ChargeHandler reacts to charge requests written under an account. It
// resolves the stored provider customer, issues an idempotent charge, and
// writes the result back.
//
// Provider and store failures are recorded in the store as a sanitized
// error and reported; the dispatch itself still resolves, so a permanently
// failing charge cannot crash-loop the trigger.
type ChargeHandler struct {
	store    AccountStore
	provider Provider
	reporter *Reporter
	currency string
	logger   *zap.Logger
}

// NewChargeHandler creates a new ChargeHandler. currency is the
// process-wide currency code applied to every charge.
func NewChargeHandler(store AccountStore, provider Provider, reporter *Reporter, currency string, logger *zap.Logger) *ChargeHandler {
	return &ChargeHandler{
		store:    store,
		provider: provider,
		reporter: reporter,
		currency: currency,
		logger:   logger,
	}
}

// Handles returns the list of event types this handler can process.
func (h *ChargeHandler) Handles() []string {
	return []string{events.ChargeRequestedType}
}

// Handle processes the given event.
func (h *ChargeHandler) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ChargeRequestedEvent)
	if !ok {
		h.logger.Warn("unhandled event type",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	accountID := e.AccountID()
	chargePath := ChargePath(accountID, e.ChargeID)

	var rec CustomerRecord
	found, err := h.store.Get(ctx, CustomerPath(accountID), &rec)
	if err != nil {
		return h.fail(ctx, chargePath, accountID, sharederrors.StoreError(CustomerPath(accountID), err))
	}
	if !found || rec.CustomerID == "" {
		return h.fail(ctx, chargePath, accountID,
			fmt.Errorf("%w: account %s", sharederrors.ErrMissingCustomer, accountID))
	}

	params := ChargeParams{
		Amount:     e.Amount,
		Currency:   h.currency,
		CustomerID: rec.CustomerID,
		// The request id doubles as the idempotency key, so a redelivered
		// event resolves to the same provider-side charge.
		IdempotencyKey: e.ChargeID,
	}
	if e.Source != nil {
		params.SourceToken = *e.Source
	}

	charge, err := h.provider.CreateCharge(ctx, params)
	if err != nil {
		return h.fail(ctx, chargePath, accountID, err)
	}

	if err := h.store.Set(ctx, chargePath, charge); err != nil {
		return h.fail(ctx, chargePath, accountID, sharederrors.StoreError(chargePath, err))
	}

	h.logger.Info("charge completed",
		zap.String("account_id", accountID),
		zap.String("charge_id", e.ChargeID),
		zap.String("provider_charge_id", charge.ChargeID),
		zap.Int64("amount", charge.Amount),
		zap.String("currency", charge.Currency),
	)
	return nil
}

func (h *ChargeHandler) fail(ctx context.Context, chargePath, accountID string, cause error) error {
	return recordFailure(ctx, h.store, h.reporter, h.logger, chargePath, accountID, cause)
}

// Compile-time check that ChargeHandler implements events.Handler.
var _ events.Handler = (*ChargeHandler)(nil)
