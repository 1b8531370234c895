package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmlarson/deckard/internal/domain"
)

// NoteStore defines the interface for note data persistence.
type NoteStore interface {
	// Create saves a new note to the store.
	// Returns validation errors from the domain Note if data is invalid.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// UpdateStatus changes the status of an existing note.
	// Returns ErrNoteNotFound if the note does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NoteStatus) error

	// WithTx returns a new NoteStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) NoteStore
}
