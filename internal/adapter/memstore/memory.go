package memstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// MemoryStore is an in-process DeckStore. Reads return copies so callers
// never observe a later write through a slice they already hold.
type MemoryStore struct {
	mu          sync.RWMutex
	cards       []domain.Card
	decks       []domain.CorpusDeck
	deckIndex   map[string]int
	collectedAt time.Time
}

var _ port.DeckStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		deckIndex: make(map[string]int),
	}
}

func (s *MemoryStore) PutCatalog(cards []domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append([]domain.Card(nil), cards...)
	return nil
}

func (s *MemoryStore) Catalog() ([]domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Card(nil), s.cards...), nil
}

func (s *MemoryStore) ReplaceCorpus(decks []domain.CorpusDeck, collectedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks = nil
	s.deckIndex = make(map[string]int, len(decks))
	if err := s.appendLocked(decks); err != nil {
		return err
	}
	s.collectedAt = collectedAt
	return nil
}

func (s *MemoryStore) AppendDecks(decks []domain.CorpusDeck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(decks)
}

func (s *MemoryStore) appendLocked(decks []domain.CorpusDeck) error {
	for _, deck := range decks {
		if deck.ID == "" {
			return fmt.Errorf("deck %q has no id", deck.Label)
		}
		if i, ok := s.deckIndex[deck.ID]; ok {
			s.decks[i] = deck
			continue
		}
		s.deckIndex[deck.ID] = len(s.decks)
		s.decks = append(s.decks, deck)
	}
	return nil
}

func (s *MemoryStore) Corpus() ([]domain.CorpusDeck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CorpusDeck(nil), s.decks...), nil
}

func (s *MemoryStore) CollectedAt() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectedAt, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
