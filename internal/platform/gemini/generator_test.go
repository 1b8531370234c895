package gemini

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlarson/deckard/internal/config"
	"github.com/jmlarson/deckard/internal/generation"
)

const testTemplate = "Generate cards for:\n\n{{.NoteText}}\n"

func writeTestTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	tmpl, err := template.New("flashcard").Parse(testTemplate)
	require.NoError(t, err)

	return &Generator{
		logger:         slog.Default(),
		promptTemplate: tmpl,
		model:          "gemini-2.0-flash",
	}
}

func TestNewGenerator_ConfigValidation(t *testing.T) {
	t.Parallel()

	validCfg := func(t *testing.T) config.LLMConfig {
		return config.LLMConfig{
			GeminiAPIKey:       "test-key",
			ModelName:          "gemini-2.0-flash",
			PromptTemplatePath: writeTestTemplate(t, testTemplate),
		}
	}

	t.Run("accepts a valid configuration", func(t *testing.T) {
		t.Parallel()
		gen, err := NewGenerator(context.Background(), slog.Default(), validCfg(t))
		require.NoError(t, err)
		assert.NotNil(t, gen)
	})

	t.Run("rejects nil logger", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(context.Background(), nil, validCfg(t))
		assert.Error(t, err)
	})

	t.Run("rejects missing API key", func(t *testing.T) {
		t.Parallel()
		cfg := validCfg(t)
		cfg.GeminiAPIKey = ""
		_, err := NewGenerator(context.Background(), slog.Default(), cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("rejects missing model name", func(t *testing.T) {
		t.Parallel()
		cfg := validCfg(t)
		cfg.ModelName = ""
		_, err := NewGenerator(context.Background(), slog.Default(), cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("rejects unreadable template path", func(t *testing.T) {
		t.Parallel()
		cfg := validCfg(t)
		cfg.PromptTemplatePath = filepath.Join(t.TempDir(), "missing.tmpl")
		_, err := NewGenerator(context.Background(), slog.Default(), cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("rejects malformed template", func(t *testing.T) {
		t.Parallel()
		cfg := validCfg(t)
		cfg.PromptTemplatePath = writeTestTemplate(t, "{{.NoteText")
		_, err := NewGenerator(context.Background(), slog.Default(), cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestCreatePrompt(t *testing.T) {
	t.Parallel()

	gen := newTestGenerator(t)

	t.Run("substitutes the note text", func(t *testing.T) {
		t.Parallel()
		prompt, err := gen.createPrompt(context.Background(), "mitochondria are organelles")
		require.NoError(t, err)
		assert.Contains(t, prompt, "mitochondria are organelles")
		assert.Contains(t, prompt, "Generate cards for:")
	})

	t.Run("rejects empty note text", func(t *testing.T) {
		t.Parallel()
		_, err := gen.createPrompt(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptyNoteText)
	})
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	gen := newTestGenerator(t)
	userID := uuid.New()
	noteID := uuid.New()

	t.Run("converts schema cards to generated domain cards", func(t *testing.T) {
		t.Parallel()
		response := &ResponseSchema{
			Cards: []CardSchema{
				{Front: "What is ATP?", Back: "The cell's energy currency"},
				{Front: "Where is ATP made?", Back: "In the mitochondria"},
			},
		}

		cards, err := gen.parseResponse(context.Background(), response, userID, noteID)
		require.NoError(t, err)
		require.Len(t, cards, 2)

		for _, card := range cards {
			assert.Equal(t, userID, card.UserID)
			require.True(t, card.NoteID.Valid)
			assert.Equal(t, noteID, card.NoteID.UUID)
		}
		assert.Equal(t, "What is ATP?", cards[0].Front)
		assert.Equal(t, "In the mitochondria", cards[1].Back)
	})

	t.Run("rejects nil response", func(t *testing.T) {
		t.Parallel()
		_, err := gen.parseResponse(context.Background(), nil, userID, noteID)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("rejects empty card list", func(t *testing.T) {
		t.Parallel()
		_, err := gen.parseResponse(context.Background(), &ResponseSchema{}, userID, noteID)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("rejects a card with a missing side", func(t *testing.T) {
		t.Parallel()
		response := &ResponseSchema{
			Cards: []CardSchema{{Front: "question", Back: ""}},
		}
		_, err := gen.parseResponse(context.Background(), response, userID, noteID)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("rejects nil user and note IDs", func(t *testing.T) {
		t.Parallel()
		response := &ResponseSchema{Cards: []CardSchema{{Front: "q", Back: "a"}}}

		_, err := gen.parseResponse(context.Background(), response, uuid.Nil, noteID)
		assert.Error(t, err)

		_, err = gen.parseResponse(context.Background(), response, userID, uuid.Nil)
		assert.Error(t, err)
	})
}
