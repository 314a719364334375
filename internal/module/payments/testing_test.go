package payments

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory AccountStore for tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte

	getErr    error
	setErr    error
	mergeErr  error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, path string, out any) (bool, error) {
	if s.getErr != nil {
		return false, s.getErr
	}
	s.mu.Lock()
	raw, ok := s.data[path]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (s *memStore) Set(_ context.Context, path string, value any) error {
	if s.setErr != nil {
		return s.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[path] = raw
	s.mu.Unlock()
	return nil
}

func (s *memStore) Merge(_ context.Context, path string, fields map[string]any) error {
	if s.mergeErr != nil {
		return s.mergeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record := make(map[string]any)
	if raw, ok := s.data[path]; ok {
		if err := json.Unmarshal(raw, &record); err != nil {
			return err
		}
	}
	for k, v := range fields {
		record[k] = v
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	s.data[path] = raw
	return nil
}

func (s *memStore) Delete(_ context.Context, path string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.data {
		if key == path || strings.HasPrefix(key, path+"/") {
			delete(s.data, key)
		}
	}
	return nil
}

// putCustomer seeds a customer record for accountID.
func (s *memStore) putCustomer(t *testing.T, accountID, customerID string) {
	t.Helper()
	err := s.Set(context.Background(), CustomerPath(accountID), CustomerRecord{CustomerID: customerID})
	require.NoError(t, err)
}

// record decodes the record stored at path into out and reports presence.
func (s *memStore) record(t *testing.T, path string, out any) bool {
	t.Helper()
	found, err := s.Get(context.Background(), path, out)
	require.NoError(t, err)
	return found
}

var _ AccountStore = (*memStore)(nil)

// stubProvider records provider calls and returns canned responses.
type stubProvider struct {
	mu sync.Mutex

	nextCustomerID string
	customerErr    error
	createdEmails  []string

	attachErr     error
	attachedCalls [][2]string // customerID, token

	chargeErr    error
	chargeCalls  []ChargeParams
	chargesByKey map[string][]ChargeParams

	deleteErr  error
	deletedIDs []string
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		nextCustomerID: "cus_1",
		chargesByKey:   make(map[string][]ChargeParams),
	}
}

func (p *stubProvider) CreateCustomer(_ context.Context, email string) (*Customer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.customerErr != nil {
		return nil, p.customerErr
	}
	p.createdEmails = append(p.createdEmails, email)
	return &Customer{ID: p.nextCustomerID, Email: email}, nil
}

func (p *stubProvider) AttachSource(_ context.Context, customerID, token string) (*Source, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attachErr != nil {
		return nil, p.attachErr
	}
	p.attachedCalls = append(p.attachedCalls, [2]string{customerID, token})
	return &Source{
		SourceID:   "card_" + token,
		CustomerID: customerID,
		Brand:      "Visa",
		Last4:      "4242",
	}, nil
}

func (p *stubProvider) CreateCharge(_ context.Context, params ChargeParams) (*Charge, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chargeErr != nil {
		return nil, p.chargeErr
	}
	p.chargeCalls = append(p.chargeCalls, params)
	p.chargesByKey[params.IdempotencyKey] = append(p.chargesByKey[params.IdempotencyKey], params)
	return &Charge{
		ChargeID:   "ch_" + params.IdempotencyKey,
		Amount:     params.Amount,
		Currency:   params.Currency,
		CustomerID: params.CustomerID,
		Status:     "succeeded",
		Paid:       true,
		SourceID:   params.SourceToken,
		Created:    1700000000,
	}, nil
}

func (p *stubProvider) DeleteCustomer(_ context.Context, customerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deletedIDs = append(p.deletedIDs, customerID)
	return nil
}

var _ Provider = (*stubProvider)(nil)

// stubSink records report entries.
type stubSink struct {
	mu      sync.Mutex
	entries []ReportEntry
	err     error
}

func (s *stubSink) Write(_ context.Context, entry ReportEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

var _ ReportSink = (*stubSink)(nil)
