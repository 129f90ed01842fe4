package port

import (
	"time"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

// DeckStore persists the card catalog and the collected deck corpus.
type DeckStore interface {
	PutCatalog(cards []domain.Card) error

	Catalog() ([]domain.Card, error)

	// ReplaceCorpus swaps the whole corpus and stamps the collection time.
	ReplaceCorpus(decks []domain.CorpusDeck, collectedAt time.Time) error

	// AppendDecks upserts decks by id, keeping first-insertion order.
	AppendDecks(decks []domain.CorpusDeck) error

	// Corpus returns decks in insertion order.
	Corpus() ([]domain.CorpusDeck, error)

	// CollectedAt is the zero time when the corpus was never collected.
	CollectedAt() (time.Time, error)

	Close() error
}
