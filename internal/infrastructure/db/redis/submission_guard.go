package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultGuardTTL = 30 * time.Second

// SubmissionGuard marks a submission as in flight so a second one for the
// same key is refused, even from another replica. The key expires on its own
// if the holder dies before releasing it.
// Key format: inflight:<key>
type SubmissionGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSubmissionGuard creates a guard whose marks expire after ttl.
func NewSubmissionGuard(client redis.UniversalClient, ttl time.Duration) *SubmissionGuard {
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &SubmissionGuard{client: client, ttl: ttl}
}

// Acquire reports false when key is already held.
func (g *SubmissionGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("guard acquire: %w", err)
	}
	return ok, nil
}

func (g *SubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.key(key)).Err(); err != nil {
		return fmt.Errorf("guard release: %w", err)
	}
	return nil
}

func (g *SubmissionGuard) key(key string) string {
	return "inflight:" + key
}
