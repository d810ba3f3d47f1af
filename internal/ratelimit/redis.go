package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ Limiter = (*RedisLimiter)(nil)

// RedisLimiter shares sliding-window counters across instances through a Redis
// sorted set per client and bucket, scored by request time.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter connects to Redis and verifies the connection.
func NewRedisLimiter(options *redis.Options) (*RedisLimiter, error) {
	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisLimiter{client: client}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, clientKey string, bucket Bucket) (bool, error) {
	key := counterKey(clientKey, bucket)
	now := l.clientTime()
	windowStart := now.Add(-bucket.Window)

	var countCmd *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "0", formatScore(windowStart))
		countCmd = pipe.ZCard(ctx, key)
		return nil
	})
	if err != nil {
		return false, err
	}

	if countCmd.Val() >= int64(bucket.Limit) {
		return false, nil
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: scoreOf(now), Member: uuid.NewString()})
		pipe.Expire(ctx, key, bucket.Window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

func (l *RedisLimiter) clientTime() time.Time {
	return time.Now()
}

func scoreOf(t time.Time) float64 {
	return float64(t.UnixNano())
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}
