package ratelimit

import (
	"context"
	"time"
)

// Bucket identifies an operation class with its own request ceiling.
type Bucket struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Request ceilings per operation class, each tracked independently per client.
var (
	BucketCreate    = Bucket{Name: "create", Limit: 20, Window: time.Hour}
	BucketUnlock    = Bucket{Name: "unlock", Limit: 10, Window: 15 * time.Minute}
	BucketSummarize = Bucket{Name: "summarize", Limit: 10, Window: time.Hour}
)

// Limiter decides whether a client may perform another request in the bucket's
// sliding window. Counters are advisory and best-effort under failover.
type Limiter interface {
	Allow(ctx context.Context, clientKey string, bucket Bucket) (bool, error)
	Close() error
}

func counterKey(clientKey string, bucket Bucket) string {
	return "ratelimit:" + bucket.Name + ":" + clientKey
}
