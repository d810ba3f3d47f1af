package notes

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSweepOnceRemovesExpiredNotes(t *testing.T) {
	store, _ := newTestStore(t, "sweeper_once")
	clock := newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	past := clock.Now().Add(-time.Minute)
	if err := store.Create(context.Background(), storedTestNote("stale", &past)); err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if err := store.Create(context.Background(), storedTestNote("fresh", nil)); err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	sweeper, err := NewSweeper(SweeperConfig{Store: store, Clock: clock.Now})
	if err != nil {
		t.Fatalf("unexpected sweeper error: %v", err)
	}
	sweeper.SweepOnce(context.Background())

	if _, err := store.FindByNoteID(context.Background(), "stale"); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected stale note swept, got %v", err)
	}
	if _, err := store.FindByNoteID(context.Background(), "fresh"); err != nil {
		t.Fatalf("expected fresh note kept: %v", err)
	}
}

func TestNewSweeperRequiresStore(t *testing.T) {
	if _, err := NewSweeper(SweeperConfig{}); err == nil {
		t.Fatalf("expected error for missing store")
	}
}
