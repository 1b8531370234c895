package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewSession validation errors
var (
	ErrSessionIDEmpty       = errors.New("review session ID cannot be empty")
	ErrSessionUserIDEmpty   = errors.New("review session user ID cannot be empty")
	ErrSessionNothingReview = errors.New("cards reviewed must be at least 1")
	ErrSessionCorrectCount  = errors.New("cards correct must be between 0 and cards reviewed")
)

// ReviewSession is a rollup of a single review sitting: how many cards
// were reviewed and how many were answered correctly (grade Good or
// better). Accuracy is derived and stored for convenience.
type ReviewSession struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	CardsReviewed int       `json:"cards_reviewed"`
	CardsCorrect  int       `json:"cards_correct"`
	Accuracy      float64   `json:"accuracy"` // Percentage, 0..100
	CreatedAt     time.Time `json:"created_at"`
}

// NewReviewSession creates a session summary, deriving accuracy from the
// reviewed/correct counts.
func NewReviewSession(userID uuid.UUID, cardsReviewed, cardsCorrect int) (*ReviewSession, error) {
	session := &ReviewSession{
		ID:            uuid.New(),
		UserID:        userID,
		CardsReviewed: cardsReviewed,
		CardsCorrect:  cardsCorrect,
		CreatedAt:     time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	session.Accuracy = float64(cardsCorrect) / float64(cardsReviewed) * 100

	return session, nil
}

// Validate checks if the ReviewSession has valid data.
func (s *ReviewSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if s.CardsReviewed < 1 {
		return ErrSessionNothingReview
	}

	if s.CardsCorrect < 0 || s.CardsCorrect > s.CardsReviewed {
		return ErrSessionCorrectCount
	}

	return nil
}
