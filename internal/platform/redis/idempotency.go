package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"eaglebank/internal/platform/middleware"
)

const idempotencyKeyPrefix = "idempotency:"

// IdempotencyStore keeps cached responses in Redis with a TTL, so retried
// requests replay the original response instead of moving money twice.
type IdempotencyStore struct {
	client *Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.CachedResponse, bool, error) {
	raw, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return middleware.CachedResponse{}, false, nil
		}
		return middleware.CachedResponse{}, false, fmt.Errorf("get idempotency key: %w", err)
	}

	var cached middleware.CachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return middleware.CachedResponse{}, false, fmt.Errorf("decode cached response: %w", err)
	}
	return cached, true, nil
}

func (s *IdempotencyStore) Set(ctx context.Context, key string, response middleware.CachedResponse) error {
	raw, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode cached response: %w", err)
	}
	// NX: the first writer wins; concurrent retries never overwrite the
	// stored response.
	if err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set idempotency key: %w", err)
	}
	return nil
}
