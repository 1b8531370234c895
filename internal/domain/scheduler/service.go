package scheduler

import (
	"errors"
	"time"

	"github.com/jmlarson/deckard/internal/domain"
)

// Common errors
var (
	ErrNilScheduling = errors.New("scheduling state cannot be nil")
	ErrInvalidGrade  = errors.New("invalid grade")
)

// Service defines the interface for scheduling operations. The underlying
// calculation is a pure function; the service adds input validation and
// the immutable-update pattern so callers never mutate stored state in
// place.
type Service interface {
	// Grade computes the scheduling state that results from grading a
	// card at the given time. The input state is not modified; a new
	// state with updated ease, interval, repetitions, and due timestamp
	// is returned.
	Grade(state *domain.Scheduling, grade domain.Grade, now time.Time) (*domain.Scheduling, error)

	// DueAt returns when a card with the given interval becomes due,
	// counted in whole UTC days from the given time. Negative intervals
	// are treated as due immediately.
	DueAt(intervalDays int, from time.Time) time.Time
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduler service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduler service with custom parameters.
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, errors.New("scheduler params cannot be nil")
	}
	return &defaultService{params: params}, nil
}

// Grade implements the Service interface.
func (s *defaultService) Grade(
	state *domain.Scheduling,
	grade domain.Grade,
	now time.Time,
) (*domain.Scheduling, error) {
	if state == nil {
		return nil, ErrNilScheduling
	}

	if !grade.Valid() {
		return nil, ErrInvalidGrade
	}

	result := gradeAnswer(state.Ease, state.IntervalDays, state.Repetitions, grade, s.params)

	next := &domain.Scheduling{
		UserID:         state.UserID,
		CardID:         state.CardID,
		Ease:           result.Ease,
		IntervalDays:   result.IntervalDays,
		Repetitions:    result.Repetitions,
		DueAt:          nextDueAt(result.IntervalDays, now),
		LastReviewedAt: now,
		CreatedAt:      state.CreatedAt,
		UpdatedAt:      now,
	}

	return next, nil
}

// DueAt implements the Service interface.
func (s *defaultService) DueAt(intervalDays int, from time.Time) time.Time {
	return nextDueAt(intervalDays, from)
}
