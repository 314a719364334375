package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharederrors "github.com/paysync/server/internal/shared/errors"
	"github.com/paysync/server/internal/shared/events"
)

func TestAccountCleanupHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the provider customer and the record subtree", func(t *testing.T) {
		store := newMemStore()
		provider := newStubProvider()
		handler := NewAccountCleanupHandler(store, provider, zap.NewNop())

		store.putCustomer(t, "acct_1", "cus_1")
		require.NoError(t, store.Set(ctx, ChargePath("acct_1", "req1"), ChargeRequest{ID: "req1", Amount: 500}))
		require.NoError(t, store.Set(ctx, SourcePath("acct_1", "src_1"), Source{SourceID: "card_1"}))

		err := handler.Handle(ctx, events.NewAccountDeletedEvent("acct_1"))
		require.NoError(t, err)

		assert.Equal(t, []string{"cus_1"}, provider.deletedIDs)

		var rec CustomerRecord
		assert.False(t, store.record(t, CustomerPath("acct_1"), &rec))
		var req ChargeRequest
		assert.False(t, store.record(t, ChargePath("acct_1", "req1"), &req))
		var src Source
		assert.False(t, store.record(t, SourcePath("acct_1", "src_1"), &src))
	})

	t.Run("provider failure propagates and leaves the record untouched", func(t *testing.T) {
		store := newMemStore()
		provider := newStubProvider()
		provider.deleteErr = errors.New("provider unavailable")
		handler := NewAccountCleanupHandler(store, provider, zap.NewNop())

		store.putCustomer(t, "acct_1", "cus_1")

		err := handler.Handle(ctx, events.NewAccountDeletedEvent("acct_1"))
		require.Error(t, err)

		var rec CustomerRecord
		require.True(t, store.record(t, CustomerPath("acct_1"), &rec))
		assert.Equal(t, "cus_1", rec.CustomerID)
	})

	t.Run("no customer record is a no-op", func(t *testing.T) {
		store := newMemStore()
		provider := newStubProvider()
		handler := NewAccountCleanupHandler(store, provider, zap.NewNop())

		err := handler.Handle(ctx, events.NewAccountDeletedEvent("acct_x"))
		require.NoError(t, err)
		assert.Empty(t, provider.deletedIDs)
	})

	t.Run("store read failure propagates", func(t *testing.T) {
		store := newMemStore()
		store.getErr = errors.New("store down")
		provider := newStubProvider()
		handler := NewAccountCleanupHandler(store, provider, zap.NewNop())

		err := handler.Handle(ctx, events.NewAccountDeletedEvent("acct_1"))
		require.Error(t, err)
		assert.ErrorIs(t, err, sharederrors.ErrStore)
		assert.Empty(t, provider.deletedIDs)
	})
}
