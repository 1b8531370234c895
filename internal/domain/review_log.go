package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewLog validation errors
var (
	ErrReviewLogIDEmpty     = errors.New("review log ID cannot be empty")
	ErrReviewLogUserIDEmpty = errors.New("review log user ID cannot be empty")
	ErrReviewLogCardIDEmpty = errors.New("review log card ID cannot be empty")
)

// ReviewLog is an immutable record of a single grading event: the grade
// the user gave plus the scheduling state before and after. The log is
// append-only and exists for audit and history; it is never read back by
// the scheduler.
type ReviewLog struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	CardID uuid.UUID `json:"card_id"`
	Grade  Grade     `json:"grade"`

	// Prior state snapshot
	PrevEase         int `json:"prev_ease"`
	PrevIntervalDays int `json:"prev_interval_days"`
	PrevRepetitions  int `json:"prev_repetitions"`

	// Resulting state snapshot
	NewEase         int       `json:"new_ease"`
	NewIntervalDays int       `json:"new_interval_days"`
	NewRepetitions  int       `json:"new_repetitions"`
	DueAt           time.Time `json:"due_at"`

	CreatedAt time.Time `json:"created_at"`
}

// NewReviewLog builds the history record for a grading event from the
// prior and resulting scheduling states.
func NewReviewLog(grade Grade, prior, next *Scheduling) (*ReviewLog, error) {
	log := &ReviewLog{
		ID:               uuid.New(),
		UserID:           next.UserID,
		CardID:           next.CardID,
		Grade:            grade,
		PrevEase:         prior.Ease,
		PrevIntervalDays: prior.IntervalDays,
		PrevRepetitions:  prior.Repetitions,
		NewEase:          next.Ease,
		NewIntervalDays:  next.IntervalDays,
		NewRepetitions:   next.Repetitions,
		DueAt:            next.DueAt,
		CreatedAt:        time.Now().UTC(),
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.ID == uuid.Nil {
		return ErrReviewLogIDEmpty
	}

	if l.UserID == uuid.Nil {
		return ErrReviewLogUserIDEmpty
	}

	if l.CardID == uuid.Nil {
		return ErrReviewLogCardIDEmpty
	}

	if !l.Grade.Valid() {
		return ErrInvalidGrade
	}

	return nil
}
