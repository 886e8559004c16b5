package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lalith-99/eightd/internal/models"
	"github.com/redis/go-redis/v9"
)

// Throttle counts failed logins per email.
type Throttle interface {
	// Allowed reports whether another attempt may be made for email.
	Allowed(ctx context.Context, email string) (bool, error)
	// Failed records a failed attempt.
	Failed(ctx context.Context, email string) error
	// Reset forgets the failures after a successful login.
	Reset(ctx context.Context, email string) error
}

// NopThrottle never blocks. It is used when Redis is not configured.
type NopThrottle struct{}

func (NopThrottle) Allowed(context.Context, string) (bool, error) { return true, nil }
func (NopThrottle) Failed(context.Context, string) error { return nil }
func (NopThrottle) Reset(context.Context, string) error { return nil }

// RedisThrottle keeps one counter per email under login:fail:<email>. The
// TTL is set when the counter is created, so the lockout window starts at
// the first failure.
type RedisThrottle struct {
	client      redis.UniversalClient
	maxAttempts int64
	lockout     time.Duration
}

func NewRedisThrottle(client redis.UniversalClient, maxAttempts int, lockout time.Duration) *RedisThrottle {
	return &RedisThrottle{
		client:      client,
		maxAttempts: int64(maxAttempts),
		lockout:     lockout,
	}
}

func throttleKey(email string) string {
	return "login:fail:" + models.NormalizeEmail(email)
}

func (t *RedisThrottle) Allowed(ctx context.Context, email string) (bool, error) {
	if t.maxAttempts <= 0 {
		return true, nil
	}
	n, err := t.client.Get(ctx, throttleKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get login failures: %w", err)
	}
	return n < t.maxAttempts, nil
}

func (t *RedisThrottle) Failed(ctx context.Context, email string) error {
	key := throttleKey(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count login failure: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.lockout).Err(); err != nil {
			return fmt.Errorf("expire login failures: %w", err)
		}
	}
	return nil
}

func (t *RedisThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, throttleKey(email)).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}
