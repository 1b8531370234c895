package generation

import (
	"context"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
)

// Generator defines the interface for generating flashcards from text.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// GenerateCards creates flashcards based on the provided note text.
	// The returned cards are owned by userID and linked to noteID.
	// Errors are one of the sentinel errors in errors.go, possibly wrapped.
	GenerateCards(
		ctx context.Context,
		noteText string,
		userID, noteID uuid.UUID,
	) ([]*domain.Card, error)
}
