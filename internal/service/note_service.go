package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/events"
	"github.com/jmlarson/deckard/internal/store"
	"github.com/jmlarson/deckard/internal/task"
)

// NoteService provides note-related operations
type NoteService interface {
	// CreateNoteAndEnqueueTask creates a new note and emits an event so a
	// background task can generate cards from it.
	CreateNoteAndEnqueueTask(
		ctx context.Context,
		userID uuid.UUID,
		text string,
	) (*domain.Note, error)

	// UpdateNoteStatus updates a note's status and handles related business logic
	UpdateNoteStatus(ctx context.Context, noteID uuid.UUID, status domain.NoteStatus) error

	// GetNote retrieves a note by its ID, enforcing ownership
	GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error)
}

// NoteServiceError wraps errors from the note service with context.
type NoteServiceError struct {
	// Operation is the operation that failed (e.g., "create_note", "update_note_status")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for NoteServiceError.
func (e *NoteServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("note service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("note service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *NoteServiceError) Unwrap() error {
	return e.Err
}

// NewNoteServiceError creates a new NoteServiceError.
// It returns known sentinel errors directly without wrapping.
func NewNoteServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNoteNotFound) || errors.Is(err, ErrNotOwned) {
		return err
	}
	if errors.Is(err, store.ErrNoteNotFound) {
		return ErrNoteNotFound
	}

	return &NoteServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// noteServiceImpl implements the NoteService interface
type noteServiceImpl struct {
	db           *sql.DB
	noteStore    store.NoteStore
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewNoteService creates a new NoteService.
// It returns an error if any of the required dependencies are nil.
func NewNoteService(
	db *sql.DB,
	noteStore store.NoteStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (NoteService, error) {
	if db == nil {
		return nil, &NoteServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if noteStore == nil {
		return nil, &NoteServiceError{
			Operation: "create_service",
			Message:   "noteStore cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &NoteServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &noteServiceImpl{
		db:           db,
		noteStore:    noteStore,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "note_service"),
	}, nil
}

// CreateNoteAndEnqueueTask creates a new note with pending status and emits an
// event for processing. Uses a transaction for the note creation part to
// ensure atomicity.
func (s *noteServiceImpl) CreateNoteAndEnqueueTask(
	ctx context.Context,
	userID uuid.UUID,
	text string,
) (*domain.Note, error) {
	// 1. Create a new note with pending status
	note, err := domain.NewNote(userID, text)
	if err != nil {
		s.logger.Error("failed to create note object",
			"error", err,
			"user_id", userID)
		return nil, NewNoteServiceError("create_note", "failed to create note object", err)
	}

	// 2. Save the note to the database using a transaction
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.noteStore.WithTx(tx)

		if err := txStore.Create(ctx, note); err != nil {
			s.logger.Error("failed to create note in transaction",
				"error", err,
				"user_id", userID,
				"note_id", note.ID)
			return NewNoteServiceError("create_note", "failed to save note to database", err)
		}
		return nil
	})
	if err != nil {
		// Error is already wrapped in the transaction
		return nil, err
	}

	s.logger.Info("note created successfully with pending status",
		"note_id", note.ID,
		"user_id", userID)

	// 3. Create a payload for the event
	payload := struct {
		NoteID uuid.UUID `json:"note_id"`
	}{
		NoteID: note.ID,
	}

	// 4. Create and emit a TaskRequestEvent
	event, err := events.NewTaskRequestEvent(task.TaskTypeNoteGeneration, payload)
	if err != nil {
		s.logger.Error("failed to create note generation event",
			"error", err,
			"note_id", note.ID,
			"user_id", userID)
		return nil, NewNoteServiceError("create_note", "failed to create event", err)
	}

	err = s.eventEmitter.EmitEvent(ctx, event)
	if err != nil {
		s.logger.Error("failed to emit note generation event",
			"error", err,
			"note_id", note.ID,
			"user_id", userID,
			"event_id", event.ID)
		return nil, NewNoteServiceError("create_note", "failed to emit event", err)
	}

	s.logger.Info("note generation event emitted successfully",
		"note_id", note.ID,
		"user_id", userID,
		"event_id", event.ID)

	return note, nil
}

// GetNote retrieves a note by its ID, enforcing ownership.
func (s *noteServiceImpl) GetNote(
	ctx context.Context,
	userID, noteID uuid.UUID,
) (*domain.Note, error) {
	note, err := s.noteStore.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.logger.Error("failed to retrieve note",
			"error", err,
			"note_id", noteID)
		return nil, NewNoteServiceError("get_note", "failed to retrieve note", err)
	}

	if note.UserID != userID {
		s.logger.Warn("note access denied",
			"note_id", noteID,
			"user_id", userID,
			"owner_id", note.UserID)
		return nil, ErrNotOwned
	}

	s.logger.Debug("retrieved note successfully",
		"note_id", noteID,
		"user_id", note.UserID,
		"status", note.Status)

	return note, nil
}

// UpdateNoteStatus updates a note's status. This centralizes status
// transition logic in the service layer and uses a transaction to ensure
// atomicity of the operation.
func (s *noteServiceImpl) UpdateNoteStatus(
	ctx context.Context,
	noteID uuid.UUID,
	status domain.NoteStatus,
) error {
	return store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.noteStore.WithTx(tx)

			// Retrieve the note first so invalid IDs surface as not-found
			note, err := txStore.GetByID(ctx, noteID)
			if err != nil {
				s.logger.Error("failed to retrieve note for status update",
					"error", err,
					"note_id", noteID,
					"target_status", status)

				if errors.Is(err, store.ErrNoteNotFound) {
					return ErrNoteNotFound
				}
				return NewNoteServiceError("update_note_status", "failed to retrieve note", err)
			}

			err = txStore.UpdateStatus(ctx, note.ID, status)
			if err != nil {
				s.logger.Error("failed to update note status",
					"error", err,
					"note_id", noteID,
					"current_status", note.Status,
					"target_status", status)
				return NewNoteServiceError(
					"update_note_status",
					fmt.Sprintf("failed to update note status to %s", status),
					err,
				)
			}

			s.logger.Info("note status updated successfully in transaction",
				"note_id", noteID,
				"status", status)
			return nil
		},
	)
}
