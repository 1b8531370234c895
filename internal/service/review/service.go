package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmlarson/deckard/internal/domain"
)

// ReviewService provides the review loop: fetching the batch of cards a
// user should study now and recording graded answers against the
// spaced-repetition schedule.
type ReviewService interface {
	// GetReviewBatch retrieves the cards the user should review now.
	//
	// In the normal mode the batch contains cards whose scheduling state
	// is due, ordered with the longest-overdue first, topped up with
	// never-scheduled cards (oldest first) when fewer due cards exist
	// than the batch size. In force mode the due filter is ignored and
	// the batch is simply the user's most recently created cards; force
	// mode never touches scheduling state.
	//
	// Returns ErrNoCardsDue if the resulting batch would be empty.
	GetReviewBatch(ctx context.Context, userID uuid.UUID, force bool) ([]*domain.Card, error)

	// SubmitGrade records a graded answer for a card and advances its
	// schedule. The card must exist and belong to the user. If the card
	// has never been graded, default scheduling state is created
	// implicitly. The state update runs in a single transaction; the
	// review history entry is appended after commit on a best-effort
	// basis and never fails the grading.
	//
	// Returns the new scheduling state on success.
	// Returns ErrCardNotFound if the card does not exist.
	// Returns ErrCardNotOwned if the user does not own the card.
	// Returns ErrInvalidGrade if the grade is outside the accepted range.
	SubmitGrade(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		grade domain.Grade,
	) (*domain.Scheduling, error)

	// RecordSession stores a summary of a completed review sitting.
	// Returns the stored summary with its derived accuracy.
	RecordSession(
		ctx context.Context,
		userID uuid.UUID,
		cardsReviewed, cardsCorrect int,
	) (*domain.ReviewSession, error)
}

// Common error types for ReviewService
var (
	// ErrNoCardsDue indicates that the user has no cards to review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidGrade indicates an out-of-range grade was provided.
	ErrInvalidGrade = errors.New("invalid grade")
)

// ServiceError wraps errors from the review service with additional context.
// Consumers differentiate error types with errors.Is/errors.As instead of
// string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "get_review_batch", "submit_grade")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitGradeError returns a new ServiceError for the submit_grade operation.
func NewSubmitGradeError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_grade",
		Message:   message,
		Err:       err,
	}
}

// NewGetReviewBatchError returns a new ServiceError for the get_review_batch operation.
func NewGetReviewBatchError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "get_review_batch",
		Message:   message,
		Err:       err,
	}
}
