package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	maxTextLength = 500
	maxIDAttempts = 5
)

var (
	// ErrNotFound indicates the identifier matched no live note.
	ErrNotFound = errors.New("notes: not found")
	// ErrExpired indicates the note's deadline has passed; detection deletes the note.
	ErrExpired = errors.New("notes: expired")
	// ErrUnauthorized indicates the candidate password did not match.
	ErrUnauthorized = errors.New("notes: password mismatch")

	errMissingStore       = errors.New("store is required")
	errMissingCredentials = errors.New("credential provider is required")
	errMissingHasher      = errors.New("password hasher is required")

	noOpLogger = zap.NewNop()
)

// ValidationError reports malformed input, naming the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("notes: invalid %s: %s", e.Field, e.Reason)
}

// ServiceError carries a stable operation.reason code alongside the cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew = "notes.service.new"
	opCreate     = "notes.create"
	opUnlock     = "notes.unlock"
	opExists     = "notes.exists"
	opSummarize  = "notes.summarize"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// Summarizer condenses verified note text; failures are classified by the implementation.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// ServiceConfig describes the collaborators the lifecycle engine depends on.
type ServiceConfig struct {
	Store       Store
	Credentials CredentialProvider
	Hasher      PasswordHasher
	Summarizer  Summarizer
	Clock       func() time.Time
	Logger      *zap.Logger
}

// Service orchestrates note creation, unlock, existence probing and summarization.
type Service struct {
	store       Store
	credentials CredentialProvider
	hasher      PasswordHasher
	summarizer  Summarizer
	clock       func() time.Time
	logger      *zap.Logger
}

// NewService validates the configuration and constructs the lifecycle engine.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.Credentials == nil {
		return nil, newServiceError(opServiceNew, "missing_credentials", errMissingCredentials)
	}
	if cfg.Hasher == nil {
		return nil, newServiceError(opServiceNew, "missing_hasher", errMissingHasher)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		store:       cfg.Store,
		credentials: cfg.Credentials,
		hasher:      cfg.Hasher,
		summarizer:  cfg.Summarizer,
		clock:       clock,
		logger:      logger,
	}, nil
}

// CreateResult carries the one-time credentials for a freshly stored note.
// The plaintext password exists nowhere else after this value is returned.
type CreateResult struct {
	NoteID    string
	Password  string
	ExpiresAt *time.Time
}

// Create validates and persists a new note, returning its public identifier,
// the generated password and the resolved deadline. Identifier collisions are
// retried transparently with a fresh identifier.
func (s *Service) Create(ctx context.Context, text, expiryOption string) (CreateResult, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return CreateResult{}, &ValidationError{Field: "text", Reason: "note text is required"}
	}
	if utf8.RuneCountInString(trimmedText) > maxTextLength {
		return CreateResult{}, &ValidationError{Field: "text", Reason: fmt.Sprintf("note must be at most %d characters", maxTextLength)}
	}

	option, err := ParseExpiryOption(expiryOption)
	if err != nil {
		return CreateResult{}, &ValidationError{Field: "expiresIn", Reason: "choose one of: never, 1h, 24h, 7d, 30d"}
	}

	password, err := s.credentials.NewPassword()
	if err != nil {
		s.logError(opCreate, "password_generation_failed", err)
		return CreateResult{}, newServiceError(opCreate, "password_generation_failed", err)
	}
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logError(opCreate, "password_hash_failed", err)
		return CreateResult{}, newServiceError(opCreate, "password_hash_failed", err)
	}

	now := s.clock().UTC()
	expiresAt := option.Resolve(now)

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		noteID, err := s.credentials.NewNoteID()
		if err != nil {
			s.logError(opCreate, "id_generation_failed", err)
			return CreateResult{}, newServiceError(opCreate, "id_generation_failed", err)
		}

		note := &Note{
			NoteID:       noteID,
			Text:         trimmedText,
			PasswordHash: passwordHash,
			ExpiresAt:    expiresAt,
			ViewCount:    0,
			CreatedAt:    now,
		}

		err = s.store.Create(ctx, note)
		if errors.Is(err, ErrDuplicateNoteID) {
			s.logger.Warn("note id collision, retrying",
				zap.String("operation", opCreate),
				zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			s.logError(opCreate, "store_create_failed", err)
			return CreateResult{}, newServiceError(opCreate, "store_create_failed", err)
		}

		return CreateResult{NoteID: noteID, Password: password, ExpiresAt: expiresAt}, nil
	}

	s.logError(opCreate, "id_attempts_exhausted", ErrDuplicateNoteID)
	return CreateResult{}, newServiceError(opCreate, "id_attempts_exhausted", ErrDuplicateNoteID)
}

// UnlockResult carries the note content released by a successful unlock.
type UnlockResult struct {
	Text      string
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Unlock verifies the candidate password and expiry for the identified note,
// increments its view counter and returns the text. An expired note is deleted
// on detection and reported as ErrExpired.
func (s *Service) Unlock(ctx context.Context, noteID NoteID, candidatePassword string) (UnlockResult, error) {
	note, err := s.loadLiveNote(ctx, opUnlock, noteID)
	if err != nil {
		return UnlockResult{}, err
	}

	if !s.hasher.Verify(candidatePassword, note.PasswordHash) {
		return UnlockResult{}, ErrUnauthorized
	}

	if err := s.store.IncrementViews(ctx, noteID.String()); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			// Deleted between lookup and increment.
			return UnlockResult{}, ErrNotFound
		}
		s.logError(opUnlock, "view_increment_failed", err, zap.String("note_id", noteID.String()))
		return UnlockResult{}, newServiceError(opUnlock, "view_increment_failed", err)
	}

	return UnlockResult{
		Text:      note.Text,
		CreatedAt: note.CreatedAt,
		ExpiresAt: note.ExpiresAt,
	}, nil
}

// ExistsResult carries the only metadata an unauthenticated caller may learn.
type ExistsResult struct {
	ExpiresAt *time.Time
}

// CheckExists probes whether the note is still live without requiring a
// password. It leaks existence and expiry metadata only, never content.
func (s *Service) CheckExists(ctx context.Context, noteID NoteID) (ExistsResult, error) {
	note, err := s.loadLiveNote(ctx, opExists, noteID)
	if err != nil {
		return ExistsResult{}, err
	}
	return ExistsResult{ExpiresAt: note.ExpiresAt}, nil
}

// Summarize re-verifies password and expiry independently of any prior unlock,
// then delegates the note text to the summarizer. The view counter is not
// touched and the summary is never persisted.
func (s *Service) Summarize(ctx context.Context, noteID NoteID, candidatePassword string) (string, error) {
	if s.summarizer == nil {
		return "", newServiceError(opSummarize, "missing_summarizer", errors.New("summarizer is not configured"))
	}

	note, err := s.loadLiveNote(ctx, opSummarize, noteID)
	if err != nil {
		return "", err
	}

	if !s.hasher.Verify(candidatePassword, note.PasswordHash) {
		return "", ErrUnauthorized
	}

	summary, err := s.summarizer.Summarize(ctx, note.Text)
	if err != nil {
		s.logError(opSummarize, "summarizer_failed", err, zap.String("note_id", noteID.String()))
		return "", err
	}
	return summary, nil
}

// loadLiveNote resolves the identifier and enforces expiry against a single
// consistent read of expires_at. Expired notes are lazily deleted here.
func (s *Service) loadLiveNote(ctx context.Context, operation string, noteID NoteID) (*Note, error) {
	note, err := s.store.FindByNoteID(ctx, noteID.String())
	if errors.Is(err, ErrNoteNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logError(operation, "store_lookup_failed", err, zap.String("note_id", noteID.String()))
		return nil, newServiceError(operation, "store_lookup_failed", err)
	}

	if note.ExpiredAt(s.clock()) {
		if err := s.store.Delete(ctx, noteID.String()); err != nil && !errors.Is(err, ErrNoteNotFound) {
			s.logger.Warn("failed to delete expired note",
				zap.String("operation", operation),
				zap.String("note_id", noteID.String()),
				zap.Error(err))
		}
		return nil, ErrExpired
	}

	return note, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("notes service error", attrs...)
}
