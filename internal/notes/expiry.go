package notes

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ExpiryOption enumerates the symbolic lifetimes a note can be created with.
type ExpiryOption string

const (
	ExpiryNever    ExpiryOption = "never"
	ExpiryOneHour  ExpiryOption = "1h"
	ExpiryOneDay   ExpiryOption = "24h"
	ExpiryOneWeek  ExpiryOption = "7d"
	ExpiryOneMonth ExpiryOption = "30d"
)

// ErrInvalidExpiryOption indicates an expiry value outside the recognized set.
var ErrInvalidExpiryOption = errors.New("notes: invalid expiry option")

var expiryDurations = map[ExpiryOption]time.Duration{
	ExpiryOneHour:  time.Hour,
	ExpiryOneDay:   24 * time.Hour,
	ExpiryOneWeek:  7 * 24 * time.Hour,
	ExpiryOneMonth: 30 * 24 * time.Hour,
}

// ParseExpiryOption validates raw client input. An absent value means never.
// Unrecognized values are rejected instead of silently falling back to never,
// so client bugs surface as validation failures.
func ParseExpiryOption(rawInput string) (ExpiryOption, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return ExpiryNever, nil
	}
	option := ExpiryOption(trimmed)
	if option == ExpiryNever {
		return option, nil
	}
	if _, ok := expiryDurations[option]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidExpiryOption, trimmed)
	}
	return option, nil
}

// Resolve maps the option to an absolute deadline relative to now, or nil for never.
func (o ExpiryOption) Resolve(now time.Time) *time.Time {
	duration, ok := expiryDurations[o]
	if !ok {
		return nil
	}
	deadline := now.Add(duration)
	return &deadline
}
