// Package redis keeps Idempotency-Key claims in Redis so that every API replica
// sees them.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyIdemOrderCreate maps an Idempotency-Key to the order it created.
	KeyIdemOrderCreate = "idem:order:create:%s"

	// TTLIdempotency is how long a key is remembered.
	TTLIdempotency = 24 * time.Hour
)

// NewClient opens a client for addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// IdempotencyStore implements ports.IdempotencyStore with SET NX.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: TTLIdempotency}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string, orderID kernel.UUID) (kernel.UUID, bool, error) {
	redisKey := fmt.Sprintf(KeyIdemOrderCreate, key)

	ok, err := s.rdb.SetNX(ctx, redisKey, orderID.String(), s.ttl).Result()
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return orderID, true, nil
	}

	stored, err := s.rdb.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		// the claim expired between SETNX and GET; try once more
		return s.Reserve(ctx, key, orderID)
	}
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("read idempotency key: %w", err)
	}

	existing, err := kernel.UUIDFromString(stored)
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("corrupt idempotency key %q: %w", redisKey, err)
	}
	return existing, false, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(KeyIdemOrderCreate, key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
