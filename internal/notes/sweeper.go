package notes

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const defaultSweepInterval = 10 * time.Minute

// SweeperConfig describes the dependencies of the background expiry sweep.
type SweeperConfig struct {
	Store    Store
	Interval time.Duration
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Sweeper periodically deletes notes whose deadline has passed. Access-time
// enforcement stays authoritative; the sweep only reclaims storage for notes
// nobody touches again.
type Sweeper struct {
	store    Store
	interval time.Duration
	clock    func() time.Time
	logger   *zap.Logger
}

// NewSweeper constructs the sweep task.
func NewSweeper(cfg SweeperConfig) (*Sweeper, error) {
	if cfg.Store == nil {
		return nil, errors.New("notes: sweeper requires a store")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Sweeper{store: cfg.Store, interval: interval, clock: clock, logger: logger}, nil
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce deletes currently expired notes and logs the outcome.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	removed, err := s.store.DeleteExpired(ctx, s.clock().UTC())
	if err != nil {
		s.logger.Warn("expiry sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("expired notes removed", zap.Int64("count", removed))
	}
}
