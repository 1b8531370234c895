package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*TaskRequestEvent
	err    error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTaskRequestEvent(t *testing.T) {
	t.Parallel()

	type payload struct {
		NoteID string `json:"note_id"`
	}

	event, err := NewTaskRequestEvent("note_generation", payload{NoteID: "abc"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "note_generation", event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded payload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, "abc", decoded.NoteID)
}

func TestNewTaskRequestEventUnserializablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewTaskRequestEvent("bad", make(chan int))
	assert.Error(t, err)
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Run("emit with no handlers succeeds", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discardLogger())
		event, err := NewTaskRequestEvent("test-event", map[string]string{"key": "value"})
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("event reaches every handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discardLogger())
		h1 := &recordingHandler{}
		h2 := &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event, err := NewTaskRequestEvent("test-event", nil)
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Len(t, h1.events, 1)
		assert.Len(t, h2.events, 1)
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discardLogger())
		failErr := errors.New("handler failed")
		h1 := &recordingHandler{err: failErr}
		h2 := &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event, err := NewTaskRequestEvent("test-event", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, failErr)
		assert.Len(t, h2.events, 1, "second handler still receives the event")
	})
}
