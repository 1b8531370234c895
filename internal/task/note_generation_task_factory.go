package task

import (
	"log/slog"

	"github.com/google/uuid"
)

// NoteGenerationTaskFactory creates NoteGenerationTask instances
type NoteGenerationTaskFactory struct {
	noteService NoteService
	generator   Generator
	cardSaver   CardSaver
	logger      *slog.Logger
}

// NewNoteGenerationTaskFactory creates a new factory for NoteGenerationTasks
func NewNoteGenerationTaskFactory(
	noteService NoteService,
	generator Generator,
	cardSaver CardSaver,
	logger *slog.Logger,
) *NoteGenerationTaskFactory {
	return &NoteGenerationTaskFactory{
		noteService: noteService,
		generator:   generator,
		cardSaver:   cardSaver,
		logger:      logger.With("component", "note_generation_task_factory"),
	}
}

// CreateTask creates a new NoteGenerationTask for the specified note
func (f *NoteGenerationTaskFactory) CreateTask(noteID uuid.UUID) (Task, error) {
	return NewNoteGenerationTask(
		noteID,
		f.noteService,
		f.generator,
		f.cardSaver,
		f.logger,
	)
}
