package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(delta time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(delta)
}

type staticCredentialProvider struct {
	noteIDs   []string
	passwords []string
	idIndex   int
	pwIndex   int
}

func (p *staticCredentialProvider) NewNoteID() (string, error) {
	if p.idIndex >= len(p.noteIDs) {
		return "", errors.New("exhausted note ids")
	}
	id := p.noteIDs[p.idIndex]
	p.idIndex++
	return id, nil
}

func (p *staticCredentialProvider) NewPassword() (string, error) {
	if p.pwIndex >= len(p.passwords) {
		return "", errors.New("exhausted passwords")
	}
	password := p.passwords[p.pwIndex]
	p.pwIndex++
	return password, nil
}

type recordingSummarizer struct {
	calls   int
	summary string
	err     error
}

func (s *recordingSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

func newTestDatabase(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(&Note{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestStore(t *testing.T, name string) (*GormStore, *gorm.DB) {
	t.Helper()
	db := newTestDatabase(t, name)
	store, err := NewGormStore(db)
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return store, db
}

func mustParsedNoteID(t *testing.T, raw string) NoteID {
	t.Helper()
	id, err := NewNoteID(raw)
	if err != nil {
		t.Fatalf("unexpected note id error: %v", err)
	}
	return id
}

func storedNote(t *testing.T, db *gorm.DB, noteID string) *Note {
	t.Helper()
	var note Note
	if err := db.Where("note_id = ?", noteID).Take(&note).Error; err != nil {
		t.Fatalf("failed to load stored note: %v", err)
	}
	return &note
}

func countNotes(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&Note{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count notes: %v", err)
	}
	return count
}
