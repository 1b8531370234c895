package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front side is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back side is empty.
	ErrCardBackEmpty = errors.New("card back cannot be empty")
)

// Card represents a flashcard owned by a user. Cards are either created
// directly or generated from a note, in which case NoteID is set.
type Card struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	NoteID    uuid.NullUUID `json:"note_id,omitempty"`
	Front     string        `json:"front"`
	Back      string        `json:"back"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewCard creates a new manually-authored Card with the given owner and
// content. It generates a new UUID for the card ID and sets timestamps.
func NewCard(userID uuid.UUID, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		UserID:    userID,
		Front:     front,
		Back:      back,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// NewGeneratedCard creates a Card produced from the given note.
func NewGeneratedCard(userID, noteID uuid.UUID, front, back string) (*Card, error) {
	card, err := NewCard(userID, front, back)
	if err != nil {
		return nil, err
	}
	card.NoteID = uuid.NullUUID{UUID: noteID, Valid: true}
	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	return nil
}

// UpdateContent replaces the card's front and back and bumps the updated
// timestamp. Returns an error if the new content is invalid, in which
// case the card is left unchanged.
func (c *Card) UpdateContent(front, back string) error {
	origFront, origBack := c.Front, c.Back
	c.Front, c.Back = front, back

	if err := c.Validate(); err != nil {
		c.Front, c.Back = origFront, origBack
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
