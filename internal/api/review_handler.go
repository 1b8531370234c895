package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jmlarson/deckard/internal/api/shared"
	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/service/review"
)

// ReviewHandler handles review flow HTTP requests
type ReviewHandler struct {
	reviewService review.ReviewService
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.ReviewService, log *slog.Logger) *ReviewHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		logger:        log.With(slog.String("component", "review_handler")),
	}
}

// GetNextCards handles GET /cards/next requests. The optional "force"
// query parameter bypasses the schedule and returns the most recently
// created cards instead.
func (h *ReviewHandler) GetNextCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	force := r.URL.Query().Get("force") == "true"

	cards, err := h.reviewService.GetReviewBatch(r.Context(), userID, force)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		if statusCode == http.StatusNoContent {
			// Nothing due is a normal outcome, not an error body.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to retrieve review cards"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	responses := make([]ReviewCardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, reviewCardToResponse(card))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// SubmitAnswer handles POST /cards/{id}/answer requests
func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	cardID, ok := cardIDFromPath(w, r, h.logger)
	if !ok {
		return
	}

	var req SubmitGradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	scheduling, err := h.reviewService.SubmitGrade(r.Context(), userID, cardID, domain.Grade(*req.Grade))
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit answer"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, schedulingToResponse(scheduling))
}

// RecordSession handles POST /reviews/sessions requests
func (h *ReviewHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req RecordSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	session, err := h.reviewService.RecordSession(r.Context(), userID, *req.Reviewed, *req.Correct)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}
