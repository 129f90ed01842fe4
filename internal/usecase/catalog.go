package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// CatalogSource supplies the card catalog.
type CatalogSource interface {
	Cards(ctx context.Context) ([]domain.Card, error)
}

// CatalogUseCase keeps the stored card catalog in sync with the game API.
type CatalogUseCase struct {
	api    port.RoyaleAPI
	store  port.DeckStore
	logger *slog.Logger
}

// NewCatalogUseCase creates a catalog use case. api may be nil, in which
// case only the stored catalog is served.
func NewCatalogUseCase(api port.RoyaleAPI, store port.DeckStore) *CatalogUseCase {
	return &CatalogUseCase{
		api:    api,
		store:  store,
		logger: slog.Default().With("component", "catalog"),
	}
}

// Sync fetches the catalog from the API and replaces the stored copy.
func (u *CatalogUseCase) Sync(ctx context.Context) ([]domain.Card, error) {
	if u.api == nil {
		return nil, fmt.Errorf("game API is not configured")
	}

	cards, err := u.api.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}
	if err := u.store.PutCatalog(cards); err != nil {
		return nil, fmt.Errorf("failed to store catalog: %w", err)
	}

	u.logger.Info("catalog synced", "cards", len(cards))
	return cards, nil
}

// Cards returns the stored catalog, syncing first when it is empty.
func (u *CatalogUseCase) Cards(ctx context.Context) ([]domain.Card, error) {
	cards, err := u.store.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(cards) > 0 || u.api == nil {
		return cards, nil
	}
	return u.Sync(ctx)
}

// ResolveDeck looks up card references by id, then by case-insensitive name.
// References that match nothing are returned in unresolved.
func ResolveDeck(catalog []domain.Card, refs []string) (deck []domain.Card, unresolved []string) {
	cards := make([]domain.Card, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		cards = append(cards, domain.Card{ID: ref, Name: ref})
	}
	return ResolveCards(catalog, cards)
}

// ResolveCards replaces each card with its catalog entry, matching by id and
// falling back to name. Unmatched cards are reported by name, or by id when
// they have no name.
func ResolveCards(catalog []domain.Card, cards []domain.Card) (deck []domain.Card, unresolved []string) {
	byID := make(map[string]domain.Card, len(catalog))
	byName := make(map[string]domain.Card, len(catalog))
	for _, c := range catalog {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = c
		}
		key := strings.ToLower(c.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = c
		}
	}

	deck = make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if found, ok := byID[c.ID]; ok && c.ID != "" {
			deck = append(deck, found)
			continue
		}
		if found, ok := byName[strings.ToLower(c.Name)]; ok && c.Name != "" {
			deck = append(deck, found)
			continue
		}
		if c.Name != "" {
			unresolved = append(unresolved, c.Name)
		} else {
			unresolved = append(unresolved, c.ID)
		}
	}
	return deck, unresolved
}
