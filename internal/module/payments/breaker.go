package payments

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	sharederrors "github.com/paysync/server/internal/shared/errors"
)

// BreakerConfig contains circuit breaker configuration for provider calls.
type BreakerConfig struct {
	FailureThreshold    uint32
	Timeout             time.Duration
	MaxHalfOpenRequests uint32
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		FailureThreshold:    5,
		Timeout:             60 * time.Second,
		MaxHalfOpenRequests: 1,
	}
}

// BreakerProvider decorates a Provider with a circuit breaker so a
// provider outage fails fast instead of holding every dispatch for a full
// timeout. Classified (user-safe) provider errors are business outcomes,
// not outages, and do not trip the breaker.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerProvider creates a new BreakerProvider.
func NewBreakerProvider(next Provider, cfg *BreakerConfig) *BreakerProvider {
	if cfg == nil {
		cfg = DefaultBreakerConfig()
	}

	settings := gobreaker.Settings{
		Name:        "payment-provider",
		MaxRequests: cfg.MaxHalfOpenRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var perr *sharederrors.ProviderError
			return errors.As(err, &perr) && perr.UserSafe()
		},
	}

	return &BreakerProvider{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (p *BreakerProvider) CreateCustomer(ctx context.Context, email string) (*Customer, error) {
	res, err := p.cb.Execute(func() (any, error) {
		return p.next.CreateCustomer(ctx, email)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Customer), nil
}

func (p *BreakerProvider) AttachSource(ctx context.Context, customerID, token string) (*Source, error) {
	res, err := p.cb.Execute(func() (any, error) {
		return p.next.AttachSource(ctx, customerID, token)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Source), nil
}

func (p *BreakerProvider) CreateCharge(ctx context.Context, params ChargeParams) (*Charge, error) {
	res, err := p.cb.Execute(func() (any, error) {
		return p.next.CreateCharge(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Charge), nil
}

func (p *BreakerProvider) DeleteCustomer(ctx context.Context, customerID string) error {
	_, err := p.cb.Execute(func() (any, error) {
		return nil, p.next.DeleteCustomer(ctx, customerID)
	})
	return err
}

// Compile-time check that BreakerProvider implements Provider.
var _ Provider = (*BreakerProvider)(nil)
