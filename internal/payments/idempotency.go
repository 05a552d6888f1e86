package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyNS = "beatbloom:v1:webhook"

// IdempotencyStore deduplicates gateway webhook deliveries by transaction id.
// The payments ledger's unique transaction_id column is the hard guarantee;
// this store short-circuits duplicates before they reach the database.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func keyFor(transactionID string) string {
	return fmt.Sprintf("%s:%s", idempotencyNS, transactionID)
}

// Acquire returns true if this transaction id has not been seen within the
// TTL window. The first caller wins; duplicates get false.
func (s *IdempotencyStore) Acquire(ctx context.Context, transactionID string) (bool, error) {
	return s.rdb.SetNX(ctx, keyFor(transactionID), "SEEN", s.ttl).Result()
}

// Release forgets a transaction id so a failed processing attempt can be retried
func (s *IdempotencyStore) Release(ctx context.Context, transactionID string) error {
	return s.rdb.Del(ctx, keyFor(transactionID)).Err()
}
