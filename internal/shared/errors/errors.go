package errors

import (
	"errors"
	"fmt"
)

// Common error classes.
var (
	// ErrMissingCustomer indicates the referenced payment customer record
	// does not exist or has not been provisioned yet.
	ErrMissingCustomer = errors.New("payment customer record missing")

	// ErrStore indicates an account store read/write failure.
	ErrStore = errors.New("account store error")

	// ErrSink indicates an error report could not be delivered.
	ErrSink = errors.New("report sink error")
)

// ProviderError represents a payment provider API failure.
//
// Provider errors come in two flavors: those carrying a provider-assigned
// classification (Type) whose message is already worded for end users, and
// internal failures where only the wrapped error holds diagnostic detail.
type ProviderError struct {
	// Type is the provider's error classification (e.g. "card_error").
	// Empty for internal failures.
	Type string

	// Message is the provider's message, user-safe when Type is set.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("provider error (%s): %s", e.Type, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider error: %v", e.Err)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

// Unwrap returns the wrapped error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UserSafe reports whether Message may be shown to an end user.
func (e *ProviderError) UserSafe() bool {
	return e.Type != ""
}

// NewProviderError creates a classified provider error whose message is
// safe to surface to end users.
func NewProviderError(errType, message string, err error) *ProviderError {
	return &ProviderError{Type: errType, Message: message, Err: err}
}

// NewInternalProviderError creates an unclassified provider error. Its
// detail must never reach end users.
func NewInternalProviderError(err error) *ProviderError {
	return &ProviderError{Err: err}
}

// StoreError wraps an account store failure with the path it occurred at.
func StoreError(path string, err error) error {
	return fmt.Errorf("%w at %q: %w", ErrStore, path, err)
}
