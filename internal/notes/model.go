package notes

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const maxIdentifierLength = 64

// ErrInvalidNoteID indicates that a note identifier is empty or exceeds storage bounds.
var ErrInvalidNoteID = errors.New("notes: invalid note id")

// NoteID represents a validated public note identifier.
type NoteID string

// NewNoteID validates raw input and returns a NoteID.
func NewNoteID(rawInput string) (NoteID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidNoteID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidNoteID, maxIdentifierLength)
	}
	return NoteID(trimmed), nil
}

// String returns the underlying string identifier.
func (id NoteID) String() string {
	return string(id)
}

// Note models the persisted note record. The public NoteID is never the
// primary key; the row id stays internal to the store.
type Note struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement"`
	NoteID       string     `gorm:"column:note_id;size:64;not null;uniqueIndex:idx_notes_note_id"`
	Text         string     `gorm:"column:text;type:text;not null"`
	PasswordHash string     `gorm:"column:password_hash;size:128;not null"`
	ExpiresAt    *time.Time `gorm:"column:expires_at;index:idx_notes_expires_at"`
	ViewCount    int64      `gorm:"column:view_count;not null;default:0"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Note) TableName() string {
	return "notes"
}

// ExpiredAt reports whether the note's deadline has passed at the given instant.
// Notes without a deadline never expire.
func (n *Note) ExpiredAt(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
