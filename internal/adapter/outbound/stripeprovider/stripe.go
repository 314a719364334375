package stripeprovider

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/charge"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentsource"

	"github.com/paysync/server/internal/module/payments"
	sharederrors "github.com/paysync/server/internal/shared/errors"
	"github.com/paysync/server/internal/utils/metrics"
)

// Provider implements payments.Provider for Stripe.
type Provider struct {
	metrics *metrics.Metrics
}

// Config holds Stripe configuration.
type Config struct {
	APIToken string
}

// New creates a new Stripe provider. metrics may be nil.
func New(cfg *Config, m *metrics.Metrics) *Provider {
	stripe.Key = cfg.APIToken
	return &Provider{metrics: m}
}

// CreateCustomer creates a Stripe customer for the given email.
func (p *Provider) CreateCustomer(ctx context.Context, email string) (*payments.Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx

	start := time.Now()
	c, err := customer.New(params)
	p.observe("create_customer", start, err)
	if err != nil {
		return nil, mapError(err)
	}
	return &payments.Customer{
		ID:    c.ID,
		Email: c.Email,
	}, nil
}

// AttachSource attaches a tokenized payment source to a customer.
func (p *Provider) AttachSource(ctx context.Context, customerID, token string) (*payments.Source, error) {
	params, err := sourceParams(customerID, token)
	if err != nil {
		return nil, sharederrors.NewInternalProviderError(err)
	}
	params.Context = ctx

	start := time.Now()
	src, err := paymentsource.New(params)
	p.observe("attach_source", start, err)
	if err != nil {
		return nil, mapError(err)
	}

	result := &payments.Source{
		SourceID:   src.ID,
		CustomerID: customerID,
	}
	if src.Card != nil {
		result.Brand = string(src.Card.Brand)
		result.Last4 = src.Card.Last4
		result.ExpMonth = src.Card.ExpMonth
		result.ExpYear = src.Card.ExpYear
	}
	return result, nil
}

// CreateCharge charges a customer. The idempotency key is passed through
// to Stripe, so a repeated call with the same key resolves to the same
// charge instead of a duplicate.
func (p *Provider) CreateCharge(ctx context.Context, cp payments.ChargeParams) (*payments.Charge, error) {
	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(cp.Amount),
		Currency: stripe.String(cp.Currency),
		Customer: stripe.String(cp.CustomerID),
	}
	params.Context = ctx
	params.SetIdempotencyKey(cp.IdempotencyKey)
	if cp.SourceToken != "" {
		if err := params.SetSource(cp.SourceToken); err != nil {
			return nil, sharederrors.NewInternalProviderError(err)
		}
	}

	start := time.Now()
	ch, err := charge.New(params)
	p.observe("create_charge", start, err)
	if err != nil {
		return nil, mapError(err)
	}

	result := &payments.Charge{
		ChargeID: ch.ID,
		Amount:   ch.Amount,
		Currency: string(ch.Currency),
		Status:   string(ch.Status),
		Paid:     ch.Paid,
		Created:  ch.Created,
	}
	if ch.Customer != nil {
		result.CustomerID = ch.Customer.ID
	}
	if ch.Source != nil {
		result.SourceID = ch.Source.ID
	}
	return result, nil
}

// DeleteCustomer deletes a Stripe customer.
func (p *Provider) DeleteCustomer(ctx context.Context, customerID string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	start := time.Now()
	_, err := customer.Del(customerID, params)
	p.observe("delete_customer", start, err)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// sourceParams builds the attach parameters for one tokenized source.
func sourceParams(customerID, token string) (*stripe.PaymentSourceParams, error) {
	sp, err := stripe.SourceParamsFor(token)
	if err != nil {
		return nil, err
	}
	return &stripe.PaymentSourceParams{
		Customer: stripe.String(customerID),
		Source:   sp,
	}, nil
}

func (p *Provider) observe(operation string, start time.Time, err error) {
	if p.metrics != nil {
		p.metrics.ObserveProviderCall(operation, start, err)
	}
}

// mapError translates Stripe errors into the tagged provider error. Stripe
// errors carrying a type classification keep their message, which Stripe
// words for end users; anything else stays internal.
func mapError(err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) && serr.Type != "" {
		return sharederrors.NewProviderError(string(serr.Type), serr.Msg, err)
	}
	return sharederrors.NewInternalProviderError(err)
}

// Compile-time check that Provider implements payments.Provider.
var _ payments.Provider = (*Provider)(nil)
