package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"carelink-backend/shared/cache"
)

// Decision is the outcome of a rate-limit check
type Decision struct {
	Allowed bool
	RetryIn time.Duration
}

// RateLimiter bounds how often an event type can occur per actor within a
// fixed window. The counting itself lives in Redis; this is only the
// check-before-mutate contract. Never call it before authorization has
// passed - unauthorized attempts must not consume the actor's budget.
type RateLimiter struct {
	RDB *redis.Client
}

// Check counts this attempt against the actor's window and decides. The
// limit-th attempt within the window is still allowed; the one after is
// denied until the window expires.
func (l *RateLimiter) Check(ctx context.Context, eventType, actorKey string, limit int, window time.Duration) (Decision, error) {
	key := cache.RateLimitKey(eventType, actorKey)

	count, err := l.RDB.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}

	if count == 1 {
		if err := l.RDB.PExpire(ctx, key, window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	if count > int64(limit) {
		retryIn, err := l.RDB.PTTL(ctx, key).Result()
		if err != nil || retryIn < 0 {
			retryIn = window
		}
		return Decision{Allowed: false, RetryIn: retryIn}, nil
	}

	return Decision{Allowed: true}, nil
}

// InviteCooldownMessage formats the user-facing cooldown notice. The wait is
// rounded up to whole minutes.
func InviteCooldownMessage(retryIn time.Duration) string {
	minutes := int64((retryIn + time.Minute - 1) / time.Minute)
	if minutes <= 1 {
		return "Invite limit reached. Try again in about 1 minute."
	}
	return fmt.Sprintf("Invite limit reached. Try again in about %d minutes.", minutes)
}
