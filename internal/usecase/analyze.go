package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/narainsingaram/clash-royale-ai/internal/adapter/annotate"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/llm"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/stats"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// AnalyzeUseCase evaluates single decks and builds new ones.
type AnalyzeUseCase struct {
	catalog   CatalogSource
	annotator *annotate.Annotator
	llm       port.LLM
	logger    *slog.Logger
}

// NewAnalyzeUseCase creates an analyze use case. llm may be nil, which
// disables critiques and generation.
func NewAnalyzeUseCase(catalog CatalogSource, annotator *annotate.Annotator, llm port.LLM) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		catalog:   catalog,
		annotator: annotator,
		llm:       llm,
		logger:    slog.Default().With("component", "analyze"),
	}
}

// Analysis bundles everything known about one deck.
type Analysis struct {
	Deck          []domain.Card              `json:"deck"`
	Unresolved    []string                   `json:"unresolved,omitempty"`
	AverageElixir float64                    `json:"averageElixir"`
	Curve         domain.ElixirCurve         `json:"elixirCurve"`
	Report        *domain.DeckReport         `json:"report"`
	Roles         domain.CardRoles           `json:"roles"`
	Synergies     []domain.Synergy           `json:"synergies"`
	Suggestions   []domain.SynergySuggestion `json:"suggestions"`
	Critique      *domain.AnalysisReport     `json:"analysisResult,omitempty"`
	// CritiqueError is set when a critique was requested but failed.
	CritiqueError string `json:"critiqueError,omitempty"`
}

// Analyze resolves the deck against the catalog and reports its statistics
// and annotations. withLLM adds a model critique.
func (u *AnalyzeUseCase) Analyze(ctx context.Context, deck []domain.Card, withLLM bool) (*Analysis, error) {
	catalog, err := u.catalog.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	resolved, unresolved := ResolveCards(catalog, deck)
	if len(unresolved) > 0 {
		return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("unknown cards: %v", unresolved)}
	}

	report, err := stats.Analyze(resolved)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Deck:          resolved,
		AverageElixir: stats.AverageElixir(resolved),
		Curve:         stats.ElixirCurve(resolved),
		Report:        report,
		Roles:         u.annotator.Roles(resolved),
		Synergies:     u.annotator.Synergies(resolved),
		Suggestions:   u.annotator.Suggestions(resolved),
	}

	if withLLM {
		critique, err := u.critique(ctx, resolved, analysis.AverageElixir)
		if err != nil {
			u.logger.Error("critique failed", "error", err)
			analysis.CritiqueError = err.Error()
		} else {
			analysis.Critique = critique
		}
	}
	return analysis, nil
}

func (u *AnalyzeUseCase) critique(ctx context.Context, deck []domain.Card, avg float64) (*domain.AnalysisReport, error) {
	if u.llm == nil {
		return nil, fmt.Errorf("language model is not configured")
	}
	reply, err := u.llm.Complete(ctx, llm.AnalysisPrompt(deck, avg), true)
	if err != nil {
		return nil, err
	}
	var report domain.AnalysisReport
	if err := llm.DecodeJSON(reply, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Generate asks the model for a deck matching prefs. The reply must name
// exactly eight distinct catalog cards.
func (u *AnalyzeUseCase) Generate(ctx context.Context, prefs domain.DeckPreferences) (*domain.GeneratedDeck, error) {
	if u.llm == nil {
		return nil, fmt.Errorf("language model is not configured")
	}

	catalog, err := u.catalog.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(catalog) < domain.DeckSize {
		return nil, fmt.Errorf("catalog has %d cards, need at least %d", len(catalog), domain.DeckSize)
	}

	reply, err := u.llm.Complete(ctx, llm.GeneratePrompt(prefs, catalog), true)
	if err != nil {
		return nil, fmt.Errorf("deck generation failed: %w", err)
	}

	var generated domain.GeneratedDeck
	if err := llm.DecodeJSON(reply, &generated); err != nil {
		return nil, err
	}

	cards, err := ValidateDeck(catalog, generated.Cards)
	if err != nil {
		return nil, fmt.Errorf("generated deck rejected: %w", err)
	}
	generated.Cards = cards
	return &generated, nil
}

// ValidateDeck checks that deck is eight distinct catalog cards and returns
// the catalog entries.
func ValidateDeck(catalog []domain.Card, deck []domain.Card) ([]domain.Card, error) {
	if len(deck) != domain.DeckSize {
		return nil, &domain.InvalidInputError{
			Reason: fmt.Sprintf("deck must have exactly %d cards, got %d", domain.DeckSize, len(deck)),
		}
	}

	resolved, unresolved := ResolveCards(catalog, deck)
	if len(unresolved) > 0 {
		return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("unknown cards: %v", unresolved)}
	}

	seen := make(map[string]struct{}, len(resolved))
	for _, c := range resolved {
		if _, dup := seen[c.ID]; dup {
			return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("duplicate card %q", c.Name)}
		}
		seen[c.ID] = struct{}{}
	}
	return resolved, nil
}

// RandomDeck draws eight distinct cards from the catalog.
func (u *AnalyzeUseCase) RandomDeck(ctx context.Context, rng *rand.Rand) ([]domain.Card, error) {
	catalog, err := u.catalog.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return RandomDeck(catalog, rng)
}

func RandomDeck(catalog []domain.Card, rng *rand.Rand) ([]domain.Card, error) {
	if len(catalog) < domain.DeckSize {
		return nil, fmt.Errorf("catalog has %d cards, need at least %d", len(catalog), domain.DeckSize)
	}
	deck := make([]domain.Card, 0, domain.DeckSize)
	for _, i := range rng.Perm(len(catalog))[:domain.DeckSize] {
		deck = append(deck, catalog[i])
	}
	return deck, nil
}

// ApplySwap returns a copy of deck with out replaced by in, keeping the
// slot position.
func ApplySwap(deck []domain.Card, out, in domain.Card) ([]domain.Card, error) {
	slot := -1
	for i, c := range deck {
		if c.ID == in.ID {
			return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("%q is already in the deck", in.Name)}
		}
		if c.ID == out.ID && slot < 0 {
			slot = i
		}
	}
	if slot < 0 {
		return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("%q is not in the deck", out.Name)}
	}

	swapped := make([]domain.Card, len(deck))
	copy(swapped, deck)
	swapped[slot] = in
	return swapped, nil
}
