package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Grade is a learner's self-assessed recall quality for a single review,
// ordered from complete failure to effortless recall.
type Grade int

// Possible grade values
const (
	GradeAgain Grade = 0
	GradeHard  Grade = 1
	GradeGood  Grade = 2
	GradeEasy  Grade = 3
)

// Valid reports whether the grade is within the accepted 0..3 range.
func (g Grade) Valid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// Correct reports whether the grade counts as a successful recall.
// Good and Easy are successes; Again and Hard are lapses.
func (g Grade) Correct() bool {
	return g >= GradeGood
}

// String returns the lowercase name of the grade.
func (g Grade) String() string {
	switch g {
	case GradeAgain:
		return "again"
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// Scheduling defaults applied on a card's first grading.
const (
	DefaultEase            = 250
	DefaultIntervalDays    = 0
	DefaultRepetitionCount = 0
)

// Scheduling-specific validation errors
var (
	ErrEmptySchedulingUserID = errors.New("scheduling user ID cannot be empty")
	ErrEmptySchedulingCardID = errors.New("scheduling card ID cannot be empty")
	ErrInvalidEase           = errors.New("ease must be at least 130")
	ErrInvalidIntervalDays   = errors.New("interval days must be greater than or equal to 0")
	ErrInvalidRepetitions    = errors.New("repetitions must be greater than or equal to 0")
)

// Scheduling tracks a user's spaced-repetition state for a specific card.
// The (UserID, CardID) pair is the identity key; one row exists per pair,
// created implicitly the first time the card is graded.
type Scheduling struct {
	UserID         uuid.UUID `json:"user_id"`
	CardID         uuid.UUID `json:"card_id"`
	Ease           int       `json:"ease"`          // Percentage multiplier, 250 = 2.5x
	IntervalDays   int       `json:"interval_days"` // Days until the card is next due
	Repetitions    int       `json:"repetitions"`   // Consecutive successes since the last lapse
	DueAt          time.Time `json:"due_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewScheduling creates the default scheduling state for a user and card.
// New cards are due immediately.
func NewScheduling(userID, cardID uuid.UUID) (*Scheduling, error) {
	now := time.Now().UTC()
	s := &Scheduling{
		UserID:       userID,
		CardID:       cardID,
		Ease:         DefaultEase,
		IntervalDays: DefaultIntervalDays,
		Repetitions:  DefaultRepetitionCount,
		DueAt:        now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the Scheduling has valid data.
func (s *Scheduling) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySchedulingUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptySchedulingCardID
	}

	if s.Ease < 130 {
		return ErrInvalidEase
	}

	if s.IntervalDays < 0 {
		return ErrInvalidIntervalDays
	}

	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	return nil
}
