package pipeline

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"carelink-backend/shared/cache"
)

// ViewInvalidator marks rendered views stale so the next request recomputes
// them. Called once per distinct affected path after a successful mutation.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// RedisInvalidator drops cached renders from Redis. Invalidation is a
// best-effort side channel: errors are logged, never surfaced.
type RedisInvalidator struct {
	RDB *redis.Client
}

// Invalidate deletes the view cache keys for the given paths
func (r *RedisInvalidator) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}

	keys := make([]string, len(paths))
	for i, path := range paths {
		keys[i] = cache.ViewKey(path)
	}

	if err := r.RDB.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ view invalidation failed for %v: %v", paths, err)
	}
}
