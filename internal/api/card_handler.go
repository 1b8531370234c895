package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/api/middleware"
	"github.com/jmlarson/deckard/internal/api/shared"
	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/platform/logger"
	"github.com/jmlarson/deckard/internal/service"
)

// CardHandler handles card management HTTP requests
type CardHandler struct {
	cardService service.CardService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, log *slog.Logger) *CardHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		validator:   validator.New(),
		logger:      log.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /cards requests
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, req.Front, req.Back)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /cards/{id} requests
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	cardID, ok := cardIDFromPath(w, r, h.logger)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), userID, cardID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /cards/{id} requests
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	cardID, ok := cardIDFromPath(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), userID, cardID, req.Front, req.Back)
	if err != nil {
		if isCardContentError(err) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid card content", err)
			return
		}
		h.respondServiceError(w, r, err, "Failed to update card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /cards/{id} requests
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	cardID, ok := cardIDFromPath(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCards handles GET /cards requests
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list cards")
		return
	}

	responses := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, cardToResponse(card))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// respondServiceError maps a service error to a sanitized HTTP response,
// substituting the given fallback message for opaque server errors.
func (h *CardHandler) respondServiceError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	fallback string,
) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)
	if statusCode == http.StatusInternalServerError {
		safeMessage = fallback
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}

// requireUserID extracts the authenticated user ID from the request
// context, responding with 401 when it is absent.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		l := logger.FromContextOrDefault(r.Context(), log)
		l.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// cardIDFromPath parses the {id} URL parameter, responding with 400 on
// missing or malformed IDs.
func cardIDFromPath(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	pathCardID := chi.URLParam(r, "id")
	if pathCardID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return uuid.Nil, false
	}

	cardID, err := uuid.Parse(pathCardID)
	if err != nil {
		l := logger.FromContextOrDefault(r.Context(), log)
		l.Warn("invalid card ID format", slog.String("card_id", pathCardID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return uuid.Nil, false
	}
	return cardID, true
}

// isCardContentError reports whether the error is one of the domain's
// card content validation errors.
func isCardContentError(err error) bool {
	for _, target := range []error{
		domain.ErrCardFrontEmpty,
		domain.ErrCardBackEmpty,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
