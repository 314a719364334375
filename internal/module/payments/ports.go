package payments

import "context"

// AccountStore is the hierarchical account data store. Values are JSON
// documents addressed by slash-separated paths. Consistency is per-path;
// callers get no cross-path ordering guarantees.
type AccountStore interface {
	// Get reads the value at path into out. The second return is false
	// when nothing exists at path.
	Get(ctx context.Context, path string, out any) (bool, error)

	// Set writes the value at path, replacing any existing value.
	Set(ctx context.Context, path string, value any) error

	// Merge writes the given fields into the record at path, leaving
	// other fields of the record intact.
	Merge(ctx context.Context, path string, fields map[string]any) error

	// Delete removes the subtree rooted at path.
	Delete(ctx context.Context, path string) error
}

// Provider is the payment provider API surface these handlers depend on.
type Provider interface {
	CreateCustomer(ctx context.Context, email string) (*Customer, error)
	AttachSource(ctx context.Context, customerID, token string) (*Source, error)
	CreateCharge(ctx context.Context, params ChargeParams) (*Charge, error)
	DeleteCustomer(ctx context.Context, customerID string) error
}

// ReportSink ships structured error reports to an external alerting
// system. Write must return only after the sink acknowledged the entry.
type ReportSink interface {
	Write(ctx context.Context, entry ReportEntry) error
}
