// Package ratelimit throttles repeated login failures using Redis counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimited is returned once an identifier or client IP has exhausted
// its attempt budget for the cooldown window.
var ErrRateLimited = errors.New("too many login attempts, please try again later")

// Limiter enforces per-identifier and per-IP login attempt budgets. A nil
// *Limiter disables throttling entirely; Redis outages fail open.
type Limiter struct {
	redis       *redis.Client
	maxAttempts int
	cooldown    time.Duration
}

// New creates a Limiter backed by the given Redis client.
func New(client *redis.Client, maxAttempts int, cooldown time.Duration) *Limiter {
	return &Limiter{
		redis:       client,
		maxAttempts: maxAttempts,
		cooldown:    cooldown,
	}
}

// Check reports ErrRateLimited when the identifier or IP is over budget.
func (l *Limiter) Check(ctx context.Context, identifier, ip string) error {
	if l == nil {
		return nil
	}
	keys := []string{identifierKey(identifier)}
	if ip != "" {
		keys = append(keys, ipKey(ip))
	}
	for _, key := range keys {
		count, err := l.redis.Get(ctx, key).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			// Fail open: throttling is a hardening layer, not a
			// dependency of login.
			return nil
		}
		if count >= int64(l.maxAttempts) {
			return ErrRateLimited
		}
	}
	return nil
}

// RecordFailure increments the counters and applies the cooldown TTL.
func (l *Limiter) RecordFailure(ctx context.Context, identifier, ip string) {
	if l == nil {
		return
	}
	l.incrementWithTTL(ctx, identifierKey(identifier))
	if ip != "" {
		l.incrementWithTTL(ctx, ipKey(ip))
	}
}

// Reset clears the counters after a successful login.
func (l *Limiter) Reset(ctx context.Context, identifier, ip string) {
	if l == nil {
		return
	}
	keys := []string{identifierKey(identifier)}
	if ip != "" {
		keys = append(keys, ipKey(ip))
	}
	l.redis.Del(ctx, keys...)
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		l.redis.Expire(ctx, key, l.cooldown)
	}
}

func identifierKey(identifier string) string {
	return fmt.Sprintf("login_attempts:id:%s", identifier)
}

func ipKey(ip string) string {
	return fmt.Sprintf("login_attempts:ip:%s", ip)
}
