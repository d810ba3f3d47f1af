package notes

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoteNotFound indicates the identifier matched no stored note.
	ErrNoteNotFound = errors.New("notes: note not found")
	// ErrDuplicateNoteID indicates the store rejected an identifier already in use.
	ErrDuplicateNoteID = errors.New("notes: duplicate note id")
)

// Store is the narrow persistence contract the lifecycle engine depends on.
// Implementations must keep lookup, increment and delete atomic per note.
type Store interface {
	Create(ctx context.Context, note *Note) error
	FindByNoteID(ctx context.Context, noteID string) (*Note, error)
	IncrementViews(ctx context.Context, noteID string) error
	Delete(ctx context.Context, noteID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
