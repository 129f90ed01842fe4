package stats

import (
	"context"
	"strings"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// BandClassifier labels decks by elixir band. It is the offline fallback
// when no language model is configured.
type BandClassifier struct{}

var _ port.ArchetypeClassifier = BandClassifier{}

func (BandClassifier) Classify(_ context.Context, deck []domain.Card) (string, error) {
	if len(deck) == 0 {
		return "", &domain.InvalidInputError{Reason: "empty deck"}
	}
	band := Band(AverageElixir(deck))
	return strings.ToUpper(band[:1]) + band[1:], nil
}
