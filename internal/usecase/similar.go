package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/narainsingaram/clash-royale-ai/internal/adapter/cache"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/llm"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/similarity"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// SimilarUseCase ranks corpus decks against a user deck.
type SimilarUseCase struct {
	catalog CatalogSource
	corpus  CorpusLoader
	llm     port.LLM
	topN    int
	indexes *cache.TTLCache[string, *similarity.CorpusIndex]
	logger  *slog.Logger
}

// NewSimilarUseCase creates a similar use case. llm may be nil, which
// disables commentary. Built indexes are reused for ttl while the catalog and
// corpus are unchanged.
func NewSimilarUseCase(catalog CatalogSource, corpus CorpusLoader, llm port.LLM, topN int, ttl time.Duration, clock cache.Clock) *SimilarUseCase {
	return &SimilarUseCase{
		catalog: catalog,
		corpus:  corpus,
		llm:     llm,
		topN:    topN,
		indexes: cache.NewTTLCache[string, *similarity.CorpusIndex](2, ttl, clock),
		logger:  slog.Default().With("component", "similar"),
	}
}

// SimilarOptions controls a single ranking request.
type SimilarOptions struct {
	// TopN overrides the configured result count when positive.
	TopN    int
	Explain bool
}

// SimilarResult contains the ranking and optional commentary.
type SimilarResult struct {
	UserDeck   []domain.Card             `json:"userDeck"`
	Unresolved []string                  `json:"unresolved,omitempty"`
	Results    []domain.SimilarityResult `json:"similarDecks"`
	Report     *domain.SimilarDeckReport `json:"similarDecksData,omitempty"`
	// CommentaryError is set when commentary was requested but failed.
	CommentaryError string `json:"commentaryError,omitempty"`
}

// Similar resolves the deck against the catalog and ranks the corpus.
// Cards missing from the catalog are reported in Unresolved and contribute
// nothing to the ranking.
func (u *SimilarUseCase) Similar(ctx context.Context, deck []domain.Card, opts SimilarOptions) (*SimilarResult, error) {
	if len(deck) == 0 {
		return nil, &domain.InvalidInputError{Reason: "deck has no cards"}
	}

	catalog, err := u.catalog.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	corpus, err := u.corpus.Load(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(corpus) == 0 {
		return nil, ErrNoMetaDecks
	}

	index, err := u.indexes.GetOrLoad(ctx, corpusKey(catalog, corpus), func(context.Context) (*similarity.CorpusIndex, error) {
		u.logger.Debug("building corpus index", "cards", len(catalog), "decks", len(corpus))
		return similarity.NewCorpusIndex(catalog, corpus)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build corpus index: %w", err)
	}

	resolved, unresolved := ResolveCards(catalog, deck)
	if len(unresolved) > 0 {
		u.logger.Warn("deck has cards outside the catalog", "unresolved", unresolved)
	}

	topN := u.topN
	if opts.TopN > 0 {
		topN = opts.TopN
	}

	ranked, err := index.Rank(resolved, topN)
	if err != nil {
		return nil, err
	}

	result := &SimilarResult{
		UserDeck:   resolved,
		Unresolved: unresolved,
		Results:    ranked,
	}

	if opts.Explain && len(ranked) > 0 {
		report, err := u.commentary(ctx, resolved, ranked)
		if err != nil {
			u.logger.Error("commentary failed", "error", err)
			result.CommentaryError = err.Error()
		} else {
			result.Report = report
		}
	}
	return result, nil
}

func (u *SimilarUseCase) commentary(ctx context.Context, deck []domain.Card, ranked []domain.SimilarityResult) (*domain.SimilarDeckReport, error) {
	if u.llm == nil {
		return nil, fmt.Errorf("language model is not configured")
	}

	reply, err := u.llm.Complete(ctx, llm.SimilarDecksPrompt(deck, ranked), true)
	if err != nil {
		return nil, err
	}

	var report domain.SimilarDeckReport
	if err := llm.DecodeJSON(reply, &report); err != nil {
		return nil, err
	}

	// Card lists and scores come from the ranking, not the model.
	if len(report.SimilarMetaDecks) > len(ranked) {
		report.SimilarMetaDecks = report.SimilarMetaDecks[:len(ranked)]
	}
	for i := range report.SimilarMetaDecks {
		report.SimilarMetaDecks[i].Cards = ranked[i].Deck.Cards
		report.SimilarMetaDecks[i].Similarity = ranked[i].Score
	}
	return &report, nil
}
