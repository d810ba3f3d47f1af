package ratelimit

import (
	"context"
	"sync"
	"time"
)

const memoryCleanupInterval = 5 * time.Minute

var _ Limiter = (*MemoryLimiter)(nil)

// MemoryLimiter tracks request timestamps per client and bucket in process
// memory. The window slides over individual request times, so filling the
// quota at the end of one window never doubles up with the start of the next.
type MemoryLimiter struct {
	mu            sync.Mutex
	requests      map[string][]time.Time
	clock         func() time.Time
	cleanupCancel context.CancelFunc
}

// NewMemoryLimiter constructs the in-process limiter and starts its cleanup loop.
func NewMemoryLimiter() *MemoryLimiter {
	limiter := newMemoryLimiter(time.Now)
	ctx, cancel := context.WithCancel(context.Background())
	limiter.cleanupCancel = cancel
	go limiter.cleanupLoop(ctx, memoryCleanupInterval)
	return limiter
}

func newMemoryLimiter(clock func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		requests: make(map[string][]time.Time),
		clock:    clock,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, clientKey string, bucket Bucket) (bool, error) {
	key := counterKey(clientKey, bucket)
	now := l.clock()
	cutoff := now.Add(-bucket.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := pruneBefore(l.requests[key], cutoff)
	if len(kept) >= bucket.Limit {
		l.requests[key] = kept
		return false, nil
	}

	l.requests[key] = append(kept, now)
	return true, nil
}

func (l *MemoryLimiter) Close() error {
	if l.cleanupCancel != nil {
		l.cleanupCancel()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = make(map[string][]time.Time)
	return nil
}

func (l *MemoryLimiter) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

// cleanup drops entries whose newest timestamp is older than the widest window,
// keeping idle clients from accumulating state.
func (l *MemoryLimiter) cleanup() {
	cutoff := l.clock().Add(-widestWindow())

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, timestamps := range l.requests {
		if len(timestamps) == 0 || timestamps[len(timestamps)-1].Before(cutoff) {
			delete(l.requests, key)
		}
	}
}

func pruneBefore(timestamps []time.Time, cutoff time.Time) []time.Time {
	index := 0
	for index < len(timestamps) && !timestamps[index].After(cutoff) {
		index++
	}
	return timestamps[index:]
}

func widestWindow() time.Duration {
	widest := BucketCreate.Window
	for _, bucket := range []Bucket{BucketUnlock, BucketSummarize} {
		if bucket.Window > widest {
			widest = bucket.Window
		}
	}
	return widest
}
