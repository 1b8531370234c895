package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
)

// Common errors
var (
	ErrNilNoteService = errors.New("note service cannot be nil")
	ErrNilGenerator   = errors.New("generator cannot be nil")
	ErrNilCardSaver   = errors.New("card saver cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
	ErrEmptyNoteID    = errors.New("note ID cannot be empty")
)

// NoteService defines the note operations a generation task needs.
// The service package imports this package for the task type constant,
// so the task declares its own narrow interface instead of importing
// the service layer back.
type NoteService interface {
	// GetNote retrieves a note by its ID
	GetNote(ctx context.Context, noteID uuid.UUID) (*domain.Note, error)

	// UpdateNoteStatus updates a note's status
	UpdateNoteStatus(ctx context.Context, noteID uuid.UUID, status domain.NoteStatus) error
}

// Generator defines the interface for flashcard generation services
type Generator interface {
	// GenerateCards creates flashcards from note text
	GenerateCards(
		ctx context.Context,
		noteText string,
		userID, noteID uuid.UUID,
	) ([]*domain.Card, error)
}

// CardSaver defines the interface for persisting generated cards
type CardSaver interface {
	// CreateCards saves multiple cards atomically
	CreateCards(ctx context.Context, cards []*domain.Card) error
}

// noteGenerationPayload represents the serialized data stored in the task
type noteGenerationPayload struct {
	NoteID uuid.UUID `json:"note_id"`
}

// NoteGenerationTask implements the Task interface for generating
// flashcards from a note
type NoteGenerationTask struct {
	id          uuid.UUID
	noteID      uuid.UUID
	noteService NoteService
	generator   Generator
	cardSaver   CardSaver
	logger      *slog.Logger
	status      TaskStatus
}

var _ Task = (*NoteGenerationTask)(nil)

// NewNoteGenerationTask creates a new note generation task
func NewNoteGenerationTask(
	noteID uuid.UUID,
	noteService NoteService,
	generator Generator,
	cardSaver CardSaver,
	logger *slog.Logger,
) (*NoteGenerationTask, error) {
	if noteService == nil {
		return nil, ErrNilNoteService
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if cardSaver == nil {
		return nil, ErrNilCardSaver
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if noteID == uuid.Nil {
		return nil, ErrEmptyNoteID
	}

	return &NoteGenerationTask{
		id:          uuid.New(),
		noteID:      noteID,
		noteService: noteService,
		generator:   generator,
		cardSaver:   cardSaver,
		logger:      logger.With("task_type", TaskTypeNoteGeneration, "note_id", noteID),
		status:      TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *NoteGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *NoteGenerationTask) Type() string {
	return TaskTypeNoteGeneration
}

// Payload returns the task data as a byte slice
func (t *NoteGenerationTask) Payload() []byte {
	data, err := json.Marshal(noteGenerationPayload{NoteID: t.noteID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *NoteGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the note generation task, handling the complete lifecycle
// from fetching the note, updating its status, generating cards, saving
// them, and finalizing the process.
func (t *NoteGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting note generation task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// 1. Retrieve the note
	note, err := t.noteService.GetNote(ctx, t.noteID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to retrieve note", "error", err)
		return fmt.Errorf("failed to retrieve note: %w", err)
	}

	t.logger.Info("retrieved note", "user_id", note.UserID, "note_status", note.Status)

	// 2. Update note status to processing
	err = t.noteService.UpdateNoteStatus(ctx, t.noteID, domain.NoteStatusProcessing)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to update note status to processing", "error", err)
		return fmt.Errorf("failed to update note status to processing: %w", err)
	}

	// 3. Generate cards
	t.logger.Info("generating cards from note text")
	cards, err := t.generator.GenerateCards(ctx, note.Text, note.UserID, note.ID)
	if err != nil {
		_ = t.noteService.UpdateNoteStatus(ctx, t.noteID, domain.NoteStatusFailed)
		t.status = TaskStatusFailed
		t.logger.Error("failed to generate cards", "error", err)
		return fmt.Errorf("failed to generate cards: %w", err)
	}

	t.logger.Info("cards generated", "count", len(cards))

	// 4. Save the generated cards (if any)
	if len(cards) > 0 {
		if err := t.cardSaver.CreateCards(ctx, cards); err != nil {
			_ = t.noteService.UpdateNoteStatus(ctx, t.noteID, domain.NoteStatusFailed)
			t.status = TaskStatusFailed
			t.logger.Error("failed to save generated cards", "error", err)
			return fmt.Errorf("failed to save generated cards: %w", err)
		}
		t.logger.Info("saved generated cards to database")
	} else {
		t.logger.Warn("note processing completed but no cards were generated")
	}

	// 5. Update note status to completed. Failures here are logged but do
	// not fail the task since the cards are already saved.
	err = t.noteService.UpdateNoteStatus(ctx, t.noteID, domain.NoteStatusCompleted)
	if err != nil {
		t.logger.Error("failed to update note final status, but cards were generated and saved",
			"error", err,
			"cards_generated", len(cards))
	}

	t.status = TaskStatusCompleted
	t.logger.Info("note generation task completed successfully", "cards_generated", len(cards))
	return nil
}
