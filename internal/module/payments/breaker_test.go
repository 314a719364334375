package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharederrors "github.com/paysync/server/internal/shared/errors"
)

func TestBreakerProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("passes successful calls through", func(t *testing.T) {
		stub := newStubProvider()
		provider := NewBreakerProvider(stub, nil)

		cust, err := provider.CreateCustomer(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, "cus_1", cust.ID)

		charge, err := provider.CreateCharge(ctx, ChargeParams{Amount: 500, Currency: "USD", CustomerID: "cus_1", IdempotencyKey: "req1"})
		require.NoError(t, err)
		assert.Equal(t, "ch_req1", charge.ChargeID)
	})

	t.Run("opens after consecutive internal failures", func(t *testing.T) {
		stub := newStubProvider()
		stub.chargeErr = sharederrors.NewInternalProviderError(errors.New("upstream 500"))
		provider := NewBreakerProvider(stub, &BreakerConfig{
			FailureThreshold:    3,
			Timeout:             time.Minute,
			MaxHalfOpenRequests: 1,
		})

		params := ChargeParams{Amount: 500, Currency: "USD", CustomerID: "cus_1", IdempotencyKey: "req1"}
		for i := 0; i < 3; i++ {
			_, err := provider.CreateCharge(ctx, params)
			require.Error(t, err)
		}

		_, err := provider.CreateCharge(ctx, params)
		require.Error(t, err)
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	})

	t.Run("classified provider errors do not trip the breaker", func(t *testing.T) {
		stub := newStubProvider()
		stub.chargeErr = sharederrors.NewProviderError("card_error", "Your card was declined", nil)
		provider := NewBreakerProvider(stub, &BreakerConfig{
			FailureThreshold:    2,
			Timeout:             time.Minute,
			MaxHalfOpenRequests: 1,
		})

		params := ChargeParams{Amount: 500, Currency: "USD", CustomerID: "cus_1", IdempotencyKey: "req1"}
		for i := 0; i < 5; i++ {
			_, err := provider.CreateCharge(ctx, params)
			require.Error(t, err)
			assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
		}
	})

	t.Run("delete customer errors count as failures", func(t *testing.T) {
		stub := newStubProvider()
		stub.deleteErr = errors.New("unreachable")
		provider := NewBreakerProvider(stub, &BreakerConfig{
			FailureThreshold:    2,
			Timeout:             time.Minute,
			MaxHalfOpenRequests: 1,
		})

		require.Error(t, provider.DeleteCustomer(ctx, "cus_1"))
		require.Error(t, provider.DeleteCustomer(ctx, "cus_1"))

		err := provider.DeleteCustomer(ctx, "cus_1")
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	})
}
