package llm

import (
	"context"
	"fmt"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// ArchetypeClassifier asks the model to pick an archetype from a fixed list.
type ArchetypeClassifier struct {
	llm        port.LLM
	archetypes []string
}

var _ port.ArchetypeClassifier = (*ArchetypeClassifier)(nil)

func NewArchetypeClassifier(llm port.LLM, archetypes []string) *ArchetypeClassifier {
	return &ArchetypeClassifier{llm: llm, archetypes: archetypes}
}

func (c *ArchetypeClassifier) Classify(ctx context.Context, deck []domain.Card) (string, error) {
	reply, err := c.llm.Complete(ctx, ArchetypePrompt(deck, c.archetypes), false)
	if err != nil {
		return "", err
	}
	label := CleanLabel(reply)
	if label == "" {
		return "", fmt.Errorf("empty archetype from llm")
	}
	return label, nil
}
