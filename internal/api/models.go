package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint. A fresh token pair is issued on every refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateCardRequest defines the payload for manual card creation.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// UpdateCardRequest defines the payload for editing a card's content.
type UpdateCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// CardResponse represents a card in API responses.
type CardResponse struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id,omitempty"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewCardResponse is a card as presented in a review batch. It carries
// the two sides and nothing else; scheduling state stays server-side.
type ReviewCardResponse struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// SubmitGradeRequest defines the payload for answering a card under review.
// Grade is a pointer so that an explicit zero (Again) survives decoding.
type SubmitGradeRequest struct {
	Grade *int `json:"grade" validate:"required,gte=0,lte=3"`
}

// SchedulingResponse reports a card's updated scheduling state after a
// review answer.
type SchedulingResponse struct {
	CardID         string    `json:"card_id"`
	Ease           int       `json:"ease"`
	IntervalDays   int       `json:"interval_days"`
	Repetitions    int       `json:"repetitions"`
	DueAt          time.Time `json:"due_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// RecordSessionRequest defines the payload for recording a finished
// review session.
type RecordSessionRequest struct {
	Reviewed *int `json:"reviewed" validate:"required,gte=0"`
	Correct  *int `json:"correct"  validate:"required,gte=0"`
}

// SessionResponse reports a recorded review session.
type SessionResponse struct {
	ID            string    `json:"id"`
	CardsReviewed int       `json:"cards_reviewed"`
	CardsCorrect  int       `json:"cards_correct"`
	Accuracy      float64   `json:"accuracy"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateNoteRequest defines the payload for submitting a note for card
// generation.
type CreateNoteRequest struct {
	Text string `json:"text" validate:"required"`
}

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// cardToResponse converts a domain.Card to a CardResponse
func cardToResponse(card *domain.Card) CardResponse {
	resp := CardResponse{
		ID:        card.ID.String(),
		Front:     card.Front,
		Back:      card.Back,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
	if card.NoteID.Valid {
		resp.NoteID = card.NoteID.UUID.String()
	}
	return resp
}

// reviewCardToResponse converts a domain.Card to a ReviewCardResponse
func reviewCardToResponse(card *domain.Card) ReviewCardResponse {
	return ReviewCardResponse{
		ID:    card.ID.String(),
		Front: card.Front,
		Back:  card.Back,
	}
}

// schedulingToResponse converts a domain.Scheduling to a SchedulingResponse
func schedulingToResponse(sched *domain.Scheduling) SchedulingResponse {
	return SchedulingResponse{
		CardID:         sched.CardID.String(),
		Ease:           sched.Ease,
		IntervalDays:   sched.IntervalDays,
		Repetitions:    sched.Repetitions,
		DueAt:          sched.DueAt,
		LastReviewedAt: sched.LastReviewedAt,
	}
}

// sessionToResponse converts a domain.ReviewSession to a SessionResponse
func sessionToResponse(session *domain.ReviewSession) SessionResponse {
	return SessionResponse{
		ID:            session.ID.String(),
		CardsReviewed: session.CardsReviewed,
		CardsCorrect:  session.CardsCorrect,
		Accuracy:      session.Accuracy,
		CreatedAt:     session.CreatedAt,
	}
}

// noteToResponse converts a domain.Note to a NoteResponse
func noteToResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID.String(),
		Text:      note.Text,
		Status:    string(note.Status),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
