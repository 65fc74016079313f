package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = 15 * time.Minute
)

// SignInLimiter throttles sign-in attempts per login key with a Redis
// fixed-window counter. Key format: signin_attempts:<login>.
type SignInLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewSignInLimiter creates a limiter. Non-positive maxAttempts/window
// select the defaults (10 attempts per 15 minutes).
func NewSignInLimiter(client *redis.Client, maxAttempts int, window time.Duration) *SignInLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &SignInLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allow records an attempt for the login and reports whether it may
// proceed. The window starts at the first attempt and resets when the key
// expires.
func (l *SignInLimiter) Allow(ctx context.Context, login string) (bool, error) {
	key := l.key(login)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("sign-in limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("sign-in limiter expire: %w", err)
		}
	}
	return n <= l.maxAttempts, nil
}

func (l *SignInLimiter) key(login string) string {
	return fmt.Sprintf("signin_attempts:%s", login)
}
