package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
)

// NoteServiceAdapter implements the NoteService interface from a pair of
// functions supplied at wiring time. It lets the application compose the
// task's note operations from the store and service layers without this
// package importing either.
type NoteServiceAdapter struct {
	getNote      func(ctx context.Context, noteID uuid.UUID) (*domain.Note, error)
	updateStatus func(ctx context.Context, noteID uuid.UUID, status domain.NoteStatus) error
}

var _ NoteService = (*NoteServiceAdapter)(nil)

// NewNoteServiceAdapter creates a NoteServiceAdapter from the given functions.
func NewNoteServiceAdapter(
	getNote func(ctx context.Context, noteID uuid.UUID) (*domain.Note, error),
	updateStatus func(ctx context.Context, noteID uuid.UUID, status domain.NoteStatus) error,
) *NoteServiceAdapter {
	return &NoteServiceAdapter{
		getNote:      getNote,
		updateStatus: updateStatus,
	}
}

// GetNote retrieves a note by its ID.
func (a *NoteServiceAdapter) GetNote(ctx context.Context, noteID uuid.UUID) (*domain.Note, error) {
	return a.getNote(ctx, noteID)
}

// UpdateNoteStatus updates a note's status.
func (a *NoteServiceAdapter) UpdateNoteStatus(
	ctx context.Context,
	noteID uuid.UUID,
	status domain.NoteStatus,
) error {
	return a.updateStatus(ctx, noteID, status)
}
