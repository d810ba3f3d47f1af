package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var _ Store = (*GormStore)(nil)

// GormStore persists notes through a GORM database handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps the database handle in the Store contract.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("notes: database handle is required")
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(ctx context.Context, note *Note) error {
	err := s.db.WithContext(ctx).Create(note).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateNoteID
	}
	return err
}

func (s *GormStore) FindByNoteID(ctx context.Context, noteID string) (*Note, error) {
	var note Note
	err := s.db.WithContext(ctx).Where("note_id = ?", noteID).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// IncrementViews bumps the view counter in a single UPDATE so concurrent
// unlocks of the same note never lose an increment.
func (s *GormStore) IncrementViews(ctx context.Context, noteID string) error {
	result := s.db.WithContext(ctx).Model(&Note{}).
		Where("note_id = ?", noteID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, noteID string) error {
	result := s.db.WithContext(ctx).Where("note_id = ?", noteID).Delete(&Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// DeleteExpired removes every note whose deadline has passed and reports how
// many rows went away. Notes without a deadline are untouched.
func (s *GormStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&Note{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
