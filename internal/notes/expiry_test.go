package notes

import (
	"errors"
	"testing"
	"time"
)

func TestParseExpiryOptionAcceptsRecognizedValues(t *testing.T) {
	cases := map[string]ExpiryOption{
		"":      ExpiryNever,
		"never": ExpiryNever,
		"1h":    ExpiryOneHour,
		"24h":   ExpiryOneDay,
		"7d":    ExpiryOneWeek,
		"30d":   ExpiryOneMonth,
		" 1h ":  ExpiryOneHour,
	}
	for raw, expected := range cases {
		option, err := ParseExpiryOption(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if option != expected {
			t.Fatalf("expected %q to parse as %q, got %q", raw, expected, option)
		}
	}
}

func TestParseExpiryOptionRejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"2weeks", "1d", "60m", "forever", "0"} {
		_, err := ParseExpiryOption(raw)
		if !errors.Is(err, ErrInvalidExpiryOption) {
			t.Fatalf("expected ErrInvalidExpiryOption for %q, got %v", raw, err)
		}
	}
}

func TestResolveMapsOptionsToAbsoluteDeadlines(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := map[ExpiryOption]time.Duration{
		ExpiryOneHour:  time.Hour,
		ExpiryOneDay:   24 * time.Hour,
		ExpiryOneWeek:  7 * 24 * time.Hour,
		ExpiryOneMonth: 30 * 24 * time.Hour,
	}
	for option, duration := range cases {
		deadline := option.Resolve(now)
		if deadline == nil {
			t.Fatalf("expected deadline for %q", option)
		}
		if !deadline.Equal(now.Add(duration)) {
			t.Fatalf("unexpected deadline for %q: %v", option, deadline)
		}
	}
}

func TestResolveNeverHasNoDeadline(t *testing.T) {
	if deadline := ExpiryNever.Resolve(time.Now()); deadline != nil {
		t.Fatalf("expected nil deadline for never, got %v", deadline)
	}
}
