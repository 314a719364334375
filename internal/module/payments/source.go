package payments

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	sharederrors "github.com/paysync/server/internal/shared/errors"
	"github.com/paysync/server/internal/shared/events"
)

// SourceAttachHandler reacts to writes of a payment source token under an
// account and attaches the token to the stored provider customer. The
// provider's response lands on the source record itself, the parent of the
// token field clients write to.
//
// Failure policy matches ChargeHandler: sanitized error into the store,
// original error to the reporter, dispatch resolves.
type SourceAttachHandler struct {
	store    AccountStore
	provider Provider
	reporter *Reporter
	logger   *zap.Logger
}

// NewSourceAttachHandler creates a new SourceAttachHandler.
func NewSourceAttachHandler(store AccountStore, provider Provider, reporter *Reporter, logger *zap.Logger) *SourceAttachHandler {
	return &SourceAttachHandler{
		store:    store,
		provider: provider,
		reporter: reporter,
		logger:   logger,
	}
}

// Handles returns the list of event types this handler can process.
func (h *SourceAttachHandler) Handles() []string {
	return []string{events.SourceWrittenType}
}

// Handle processes the given event.
func (h *SourceAttachHandler) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.SourceWrittenEvent)
	if !ok {
		h.logger.Warn("unhandled event type",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	// Token removed, nothing to attach.
	if e.Token == nil {
		h.logger.Debug("source token removed, skipping",
			zap.String("account_id", e.AccountID()),
			zap.String("source_id", e.SourceID),
		)
		return nil
	}

	accountID := e.AccountID()
	sourcePath := SourcePath(accountID, e.SourceID)

	var rec CustomerRecord
	found, err := h.store.Get(ctx, CustomerPath(accountID), &rec)
	if err != nil {
		return h.fail(ctx, sourcePath, accountID, sharederrors.StoreError(CustomerPath(accountID), err))
	}
	if !found || rec.CustomerID == "" {
		return h.fail(ctx, sourcePath, accountID,
			fmt.Errorf("%w: account %s", sharederrors.ErrMissingCustomer, accountID))
	}

	src, err := h.provider.AttachSource(ctx, rec.CustomerID, *e.Token)
	if err != nil {
		return h.fail(ctx, sourcePath, accountID, err)
	}

	if err := h.store.Set(ctx, sourcePath, src); err != nil {
		return h.fail(ctx, sourcePath, accountID, sharederrors.StoreError(sourcePath, err))
	}

	h.logger.Info("payment source attached",
		zap.String("account_id", accountID),
		zap.String("source_id", e.SourceID),
		zap.String("provider_source_id", src.SourceID),
	)
	return nil
}

func (h *SourceAttachHandler) fail(ctx context.Context, sourcePath, accountID string, cause error) error {
	return recordFailure(ctx, h.store, h.reporter, h.logger, sourcePath, accountID, cause)
}

// Compile-time check that SourceAttachHandler implements events.Handler.
var _ events.Handler = (*SourceAttachHandler)(nil)
