package port

import (
	"context"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

// LLM represents a language model for text generation.
type LLM interface {
	// Complete sends a single user prompt. With jsonMode the provider is
	// asked to reply with a JSON object only.
	Complete(ctx context.Context, prompt string, jsonMode bool) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}

// ArchetypeClassifier names the archetype of a deck.
type ArchetypeClassifier interface {
	Classify(ctx context.Context, deck []domain.Card) (string, error)
}
