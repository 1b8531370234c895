package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/api/shared"
	"github.com/jmlarson/deckard/internal/platform/logger"
	"github.com/jmlarson/deckard/internal/service"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	noteService service.NoteService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService service.NoteService, log *slog.Logger) *NoteHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NoteHandler")
	}

	return &NoteHandler{
		noteService: noteService,
		validator:   validator.New(),
		logger:      log.With(slog.String("component", "note_handler")),
	}
}

// CreateNote handles POST /notes requests. The note is stored and card
// generation is enqueued as a background task; the response returns the
// note in its pending state.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	note, err := h.noteService.CreateNoteAndEnqueueTask(r.Context(), userID, req.Text)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to create note"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, noteToResponse(note))
}

// GetNote handles GET /notes/{id} requests, used to poll generation status.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	pathNoteID := chi.URLParam(r, "id")
	if pathNoteID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Note ID is required")
		return
	}

	noteID, err := uuid.Parse(pathNoteID)
	if err != nil {
		l := logger.FromContextOrDefault(r.Context(), h.logger)
		l.Warn("invalid note ID format", slog.String("note_id", pathNoteID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	note, err := h.noteService.GetNote(r.Context(), userID, noteID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to retrieve note"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}
