// Package ratelimit protects the shop API with a sliding-window limiter
// backed by Redis sorted sets, one set per client key.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per key inside a rolling window. Every request is
// recorded as a uniquely-scored member; expired members are pruned on each
// call so the count always reflects the current window.
type Limiter struct {
	Client *redis.Client
	Prefix string
}

// Allow registers one request for key and reports whether it fits the limit.
// A nil client or non-positive limit disables limiting entirely.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error) {
	if l.Client == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}

	now := time.Now()
	reset = now.Add(window)
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)
	bucket := l.Prefix + key
	member := key + ":" + uuid.NewString()

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, bucket, "-inf", cutoff)
	pipe.ZAdd(ctx, bucket, redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, bucket)
	pipe.Expire(ctx, bucket, window)
	if _, err = pipe.Exec(ctx); err != nil {
		return false, 0, reset, err
	}

	current := int(countCmd.Val())
	remaining = max - current
	if remaining < 0 {
		remaining = 0
	}
	return current <= max, remaining, reset, nil
}
