package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/paysync/server/internal/module/payments"
)

// AccountStore implements payments.AccountStore on Redis. Each store path
// maps to one key holding a JSON document, so per-path read/write
// consistency follows Redis single-key semantics.
type AccountStore struct {
	client    redis.UniversalClient
	namespace string
}

// NewAccountStore creates a new account store adapter. namespace prefixes
// every key so multiple deployments can share one Redis.
func NewAccountStore(client redis.UniversalClient, namespace string) *AccountStore {
	if namespace == "" {
		namespace = "paysync"
	}
	return &AccountStore{
		client:    client,
		namespace: namespace,
	}
}

// Get reads the value at path into out.
func (s *AccountStore) Get(ctx context.Context, path string, out any) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(path)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("get %q: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %q: %w", path, err)
	}
	return true, nil
}

// Set writes the value at path, replacing any existing value.
func (s *AccountStore) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	if err := s.client.Set(ctx, s.key(path), raw, 0).Err(); err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	return nil
}

// Merge writes fields into the record at path, preserving other fields.
func (s *AccountStore) Merge(ctx context.Context, path string, fields map[string]any) error {
	record := make(map[string]any)
	if _, err := s.Get(ctx, path, &record); err != nil {
		return err
	}
	for k, v := range fields {
		record[k] = v
	}
	return s.Set(ctx, path, record)
}

// Delete removes the subtree rooted at path: the record itself and every
// record below it.
func (s *AccountStore) Delete(ctx context.Context, path string) error {
	keys := []string{s.key(path)}

	iter := s.client.Scan(ctx, 0, s.key(path)+"/*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %q: %w", path, err)
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	return nil
}

func (s *AccountStore) key(path string) string {
	return s.namespace + ":" + path
}

// Compile-time check
var _ payments.AccountStore = (*AccountStore)(nil)
