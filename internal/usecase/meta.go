package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/narainsingaram/clash-royale-ai/internal/adapter/cache"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// ErrNoMetaDecks is returned by meta queries over an empty corpus.
var ErrNoMetaDecks = errors.New("no meta decks available")

// UnknownArchetype labels decks the classifier could not name.
const UnknownArchetype = "Unknown"

// MetaUseCase computes aggregate statistics over the corpus.
type MetaUseCase struct {
	corpus       CorpusLoader
	classifier   port.ArchetypeClassifier
	distribution *cache.TTLCache[string, []domain.ArchetypeShare]
	logger       *slog.Logger
}

// NewMetaUseCase creates a meta use case. Archetype distributions are cached
// for ttl per corpus content.
func NewMetaUseCase(corpus CorpusLoader, classifier port.ArchetypeClassifier, ttl time.Duration, clock cache.Clock) *MetaUseCase {
	return &MetaUseCase{
		corpus:       corpus,
		classifier:   classifier,
		distribution: cache.NewTTLCache[string, []domain.ArchetypeShare](4, ttl, clock),
		logger:       slog.Default().With("component", "meta"),
	}
}

func (u *MetaUseCase) load(ctx context.Context) ([]domain.CorpusDeck, error) {
	decks, err := u.corpus.Load(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, ErrNoMetaDecks
	}
	return decks, nil
}

// PopularCards counts how many corpus decks contain each card and returns
// the n most used. Equal counts keep first-appearance order. n <= 0 returns
// every card.
func (u *MetaUseCase) PopularCards(ctx context.Context, n int) ([]domain.PopularCard, error) {
	decks, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	return PopularCards(decks, n), nil
}

func PopularCards(decks []domain.CorpusDeck, n int) []domain.PopularCard {
	index := make(map[string]int)
	var cards []domain.PopularCard
	for _, d := range decks {
		for _, c := range d.Cards {
			i, ok := index[c.ID]
			if !ok {
				i = len(cards)
				index[c.ID] = i
				cards = append(cards, domain.PopularCard{ID: c.ID, Name: c.Name, IconURL: c.IconURL})
			}
			cards[i].Count++
		}
	}

	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Count > cards[j].Count })
	if n > 0 && n < len(cards) {
		cards = cards[:n]
	}
	if cards == nil {
		cards = []domain.PopularCard{}
	}
	return cards
}

// PopularDecks groups identical decks regardless of card order and returns
// the n most frequent.
func (u *MetaUseCase) PopularDecks(ctx context.Context, n int) ([]domain.PopularDeck, error) {
	decks, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	return PopularDecks(decks, n), nil
}

func PopularDecks(decks []domain.CorpusDeck, n int) []domain.PopularDeck {
	index := make(map[string]int)
	var popular []domain.PopularDeck
	for _, d := range decks {
		sig := DeckSignature(d.Cards)
		i, ok := index[sig]
		if !ok {
			i = len(popular)
			index[sig] = i
			popular = append(popular, domain.PopularDeck{Signature: sig, Cards: d.Cards})
		}
		popular[i].Count++
	}

	sort.SliceStable(popular, func(i, j int) bool { return popular[i].Count > popular[j].Count })
	if n > 0 && n < len(popular) {
		popular = popular[:n]
	}
	if popular == nil {
		popular = []domain.PopularDeck{}
	}
	return popular
}

// DeckSignature is the sorted card ids joined by "-".
func DeckSignature(cards []domain.Card) string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}

// ArchetypeDistribution classifies every corpus deck and reports each
// archetype's share. A deck that fails classification counts as Unknown.
func (u *MetaUseCase) ArchetypeDistribution(ctx context.Context) ([]domain.ArchetypeShare, error) {
	decks, err := u.load(ctx)
	if err != nil {
		return nil, err
	}

	key := corpusKey(nil, decks)
	return u.distribution.GetOrLoad(ctx, key, func(ctx context.Context) ([]domain.ArchetypeShare, error) {
		return u.classify(ctx, decks)
	})
}

func (u *MetaUseCase) classify(ctx context.Context, decks []domain.CorpusDeck) ([]domain.ArchetypeShare, error) {
	start := time.Now()
	index := make(map[string]int)
	var shares []domain.ArchetypeShare

	for _, d := range decks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		label, err := u.classifier.Classify(ctx, d.Cards)
		if err != nil || label == "" {
			u.logger.Warn("failed to classify deck", "deck", d.ID, "error", err)
			label = UnknownArchetype
		}

		i, ok := index[label]
		if !ok {
			i = len(shares)
			index[label] = i
			shares = append(shares, domain.ArchetypeShare{Archetype: label})
		}
		shares[i].Count++
	}

	total := float64(len(decks))
	for i := range shares {
		shares[i].Percentage = float64(shares[i].Count) / total * 100
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].Count > shares[j].Count })

	u.logger.Info("archetype distribution computed",
		"decks", len(decks),
		"archetypes", len(shares),
		"duration_ms", time.Since(start).Milliseconds())
	return shares, nil
}

// InvalidateDistribution drops cached distributions.
func (u *MetaUseCase) InvalidateDistribution() {
	u.distribution.Invalidate()
}
