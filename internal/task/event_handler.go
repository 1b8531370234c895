package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/events"
)

// TaskFactory creates tasks from the entity ID carried in an event payload.
type TaskFactory interface {
	CreateTask(noteID uuid.UUID) (Task, error)
}

// TaskSubmitter accepts tasks for background execution.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler implements the events.EventHandler interface.
// It turns task request events into concrete tasks and hands them to
// the runner for execution.
type TaskFactoryEventHandler struct {
	taskFactory TaskFactory
	taskRunner  TaskSubmitter
	logger      *slog.Logger
}

var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)

// NewTaskFactoryEventHandler creates a new event handler that uses the given
// task factory to create tasks and submits them to the provided task runner.
func NewTaskFactoryEventHandler(
	taskFactory TaskFactory,
	taskRunner TaskSubmitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		taskFactory: taskFactory,
		taskRunner:  taskRunner,
		logger:      logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent processes events by creating and submitting tasks.
func (h *TaskFactoryEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeNoteGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload struct {
		NoteID uuid.UUID `json:"note_id"`
	}
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.NoteID == uuid.Nil {
		h.logger.Error("event payload has empty note ID", "event_id", event.ID)
		return ErrEmptyNoteID
	}

	h.logger.Debug("creating task for note", "note_id", payload.NoteID, "event_id", event.ID)
	newTask, err := h.taskFactory.CreateTask(payload.NoteID)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"note_id", payload.NoteID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.taskRunner.Submit(ctx, newTask); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", newTask.ID(),
			"note_id", payload.NoteID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted successfully",
		"task_id", newTask.ID(),
		"note_id", payload.NoteID,
		"event_id", event.ID)
	return nil
}
