package memory

import (
	"context"
	"sync"

	"fooddelivery/internal/core/domain/model/kernel"
)

// IdempotencyStore keeps Idempotency-Key claims in process memory. It never expires
// keys; the Redis store is used when keys must survive restarts.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]kernel.UUID
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]kernel.UUID)}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string, orderID kernel.UUID) (kernel.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.keys[key]; ok {
		return existing, false, nil
	}
	s.keys[key] = orderID
	return orderID, true, nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, key)
	return nil
}
