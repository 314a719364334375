package payments

// CustomerRecord links an account to its payment provider customer.
// CustomerID is immutable once set; the record is only ever removed as a
// whole when the account is cleaned up.
type CustomerRecord struct {
	CustomerID string `json:"customer_id"`
	Error      string `json:"error,omitempty"`
}

// ChargeRequest is a client-written charge request as stored under an
// account. ID doubles as the provider idempotency key.
type ChargeRequest struct {
	ID     string  `json:"id"`
	Amount int64   `json:"amount"`
	Source *string `json:"source,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Customer is the provider's customer object.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Charge is the provider's charge response; on success it replaces the
// charge request's record verbatim.
type Charge struct {
	ChargeID   string `json:"id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	CustomerID string `json:"customer"`
	Status     string `json:"status"`
	Paid       bool   `json:"paid"`
	SourceID   string `json:"source,omitempty"`
	Created    int64  `json:"created"`
}

// Source is the provider's response to attaching a payment source.
type Source struct {
	SourceID   string `json:"id"`
	CustomerID string `json:"customer"`
	Brand      string `json:"brand,omitempty"`
	Last4      string `json:"last4,omitempty"`
	ExpMonth   int64  `json:"exp_month,omitempty"`
	ExpYear    int64  `json:"exp_year,omitempty"`
}

// ChargeParams describes one charge instruction for the provider.
type ChargeParams struct {
	Amount     int64
	Currency   string
	CustomerID string

	// SourceToken is included only when the request carried a source.
	SourceToken string

	// IdempotencyKey deduplicates redelivered requests provider-side.
	IdempotencyKey string
}