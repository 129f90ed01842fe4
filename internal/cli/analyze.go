package cli

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/usecase"
)

var (
	analyzeDeck   string
	analyzePlayer string
	analyzeLLM    bool
	analyzeSwaps  []string
	analyzeJSON   bool
	randomJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a deck's elixir, roles and synergies",
	Long: `Report the average elixir, cost curve, card roles, known synergies and
missing synergy pieces of an eight card deck.

Examples:
  royale analyze --deck "Golem,Night Witch,Baby Dragon,Lumberjack,Tornado,Lightning,Barbarian Barrel,Elixir Collector"
  royale analyze --deck "..." --swap "Lightning=Poison" --llm`,
	RunE: runAnalyze,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Draw a random deck from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		deck, err := a.analyze.RandomDeck(cmd.Context(), rng)
		if err != nil {
			return err
		}
		if randomJSON {
			return printJSON(deck)
		}
		printDeck(deck)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd, randomCmd)
	analyzeCmd.Flags().StringVar(&analyzeDeck, "deck", "", "comma separated card names or ids")
	analyzeCmd.Flags().StringVarP(&analyzePlayer, "player", "p", "", "analyze this player's current deck")
	analyzeCmd.Flags().BoolVar(&analyzeLLM, "llm", false, "add a language model critique")
	analyzeCmd.Flags().StringArrayVar(&analyzeSwaps, "swap", nil, "replace a card before analyzing, as out=in (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output as JSON")
	analyzeCmd.MarkFlagsMutuallyExclusive("deck", "player")
	analyzeCmd.MarkFlagsOneRequired("deck", "player")
	randomCmd.Flags().BoolVar(&randomJSON, "json", false, "output as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	deck, err := a.inputDeck(cmd, analyzeDeck, analyzePlayer)
	if err != nil {
		return err
	}

	if len(analyzeSwaps) > 0 {
		deck, err = a.applySwaps(cmd, deck, analyzeSwaps)
		if err != nil {
			return err
		}
	}

	analysis, err := a.analyze.Analyze(cmd.Context(), deck, analyzeLLM)
	if err != nil {
		return err
	}

	if analyzeJSON {
		return printJSON(analysis)
	}

	fmt.Println("Deck:")
	printDeck(analysis.Deck)
	fmt.Printf("\n%s\n", analysis.Report.Summary)

	fmt.Printf("\nElixir curve:\n")
	for cost := 1; cost <= 9; cost++ {
		if n := analysis.Curve.Counts[cost]; n > 0 {
			fmt.Printf("  %d | %s %d\n", cost, strings.Repeat("#", n), n)
		}
	}

	r := analysis.Roles
	fmt.Printf("\nRoles:\n")
	fmt.Printf("  Win conditions: %s\n", strings.Join(r.WinConditions, ", "))
	fmt.Printf("  Spells:         %s\n", strings.Join(r.Spells, ", "))
	fmt.Printf("  Buildings:      %s\n", strings.Join(r.Buildings, ", "))
	fmt.Printf("  Support:        %s\n", strings.Join(r.Support, ", "))

	if len(analysis.Synergies) > 0 {
		fmt.Printf("\nSynergies:\n")
		for _, s := range analysis.Synergies {
			fmt.Printf("  %s + %s [%s %.1f]: %s\n", s.From, s.To, s.Type, s.Strength, s.Description)
		}
	}
	if len(analysis.Suggestions) > 0 {
		fmt.Printf("\nMissing pieces:\n")
		for _, s := range analysis.Suggestions {
			fmt.Printf("  %s (%s): %s\n", s.Card, s.Archetype, strings.Join(s.Missing, ", "))
		}
	}

	if c := analysis.Critique; c != nil {
		if c.DeckOverview != nil {
			fmt.Printf("\nArchetype: %s\nPlaystyle: %s\n", c.DeckOverview.Archetype, c.DeckOverview.Playstyle)
		}
		printNotes("Strengths", c.Strengths)
		printNotes("Weaknesses", c.Weaknesses)
		printNotes("Synergy notes", c.Synergies)
		if len(c.SuggestedImprovements) > 0 {
			fmt.Printf("\nSuggested improvements:\n")
			for _, s := range c.SuggestedImprovements {
				fmt.Printf("  %s -> %s: %s\n", s.CardToReplace, s.CardToAdd, s.ReasonToAdd)
			}
		}
	}
	if analysis.CritiqueError != "" {
		fmt.Printf("\nCritique unavailable: %s\n", analysis.CritiqueError)
	}
	return nil
}

func printNotes(title string, notes []domain.TitledNote) {
	if len(notes) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, n := range notes {
		fmt.Printf("  %s: %s\n", n.Title, n.Description)
	}
}

// applySwaps resolves the deck and applies each out=in replacement in order.
func (a *app) applySwaps(cmd *cobra.Command, deck []domain.Card, swaps []string) ([]domain.Card, error) {
	catalog, err := a.catalog.Cards(cmd.Context())
	if err != nil {
		return nil, err
	}
	deck, unresolved := usecase.ResolveCards(catalog, deck)
	if len(unresolved) > 0 {
		return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("unknown cards: %v", unresolved)}
	}

	for _, swap := range swaps {
		out, in, ok := strings.Cut(swap, "=")
		if !ok {
			return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("swap %q is not out=in", swap)}
		}
		pair, unresolved := usecase.ResolveDeck(catalog, []string{out, in})
		if len(unresolved) > 0 || len(pair) != 2 {
			return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("unknown cards in swap %q: %v", swap, unresolved)}
		}
		deck, err = usecase.ApplySwap(deck, pair[0], pair[1])
		if err != nil {
			return nil, err
		}
	}
	return deck, nil
}
