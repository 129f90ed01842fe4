package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/usecase"
)

var (
	similarDeck    string
	similarPlayer  string
	similarTopN    int
	similarExplain bool
	similarJSON    bool
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find meta decks similar to a deck",
	Long: `Rank the collected meta decks by cosine similarity of card presence.

Examples:
  royale similar --deck "Hog Rider,Musketeer,Ice Golem,Fireball,The Log,Skeletons,Cannon,Ice Spirit"
  royale similar --player "#2PP" --top-n 5 --explain`,
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().StringVar(&similarDeck, "deck", "", "comma separated card names or ids")
	similarCmd.Flags().StringVarP(&similarPlayer, "player", "p", "", "use this player's current deck")
	similarCmd.Flags().IntVarP(&similarTopN, "top-n", "n", 0, "number of results (default from config)")
	similarCmd.Flags().BoolVar(&similarExplain, "explain", false, "ask the language model to explain the matches")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output as JSON")
	similarCmd.MarkFlagsMutuallyExclusive("deck", "player")
	similarCmd.MarkFlagsOneRequired("deck", "player")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	deck, err := a.inputDeck(cmd, similarDeck, similarPlayer)
	if err != nil {
		return err
	}

	result, err := a.similar.Similar(cmd.Context(), deck, usecase.SimilarOptions{
		TopN:    similarTopN,
		Explain: similarExplain,
	})
	if err != nil {
		return err
	}

	if similarJSON {
		return printJSON(result)
	}

	fmt.Printf("Your deck: %s\n", cardNames(result.UserDeck))
	if len(result.Unresolved) > 0 {
		fmt.Printf("Unknown cards (ignored): %v\n", result.Unresolved)
	}
	fmt.Printf("\nFound %d similar decks:\n\n", len(result.Results))
	for i, r := range result.Results {
		fmt.Printf("--- Result %d (similarity: %.2f) ---\n", i+1, r.Score)
		fmt.Printf("%s", r.Deck.Label)
		if r.Deck.Trophies > 0 {
			fmt.Printf(" (%d trophies)", r.Deck.Trophies)
		}
		fmt.Println()
		fmt.Printf("  %s\n\n", cardNames(r.Deck.Cards))
	}

	if result.Report != nil {
		fmt.Printf("Identified archetype: %s\n\n", result.Report.IdentifiedArchetype)
		for _, d := range result.Report.SimilarMetaDecks {
			fmt.Printf("%s: %s\n", d.Name, d.CoreStrategy)
			if d.SimilarityExplanation != "" {
				fmt.Printf("  Why: %s\n", d.SimilarityExplanation)
			}
			if d.KeyDifferences != "" {
				fmt.Printf("  Differences: %s\n", d.KeyDifferences)
			}
			for _, s := range d.SuggestedSwapsToMatch {
				fmt.Printf("  Swap %s -> %s: %s\n", s.CardToReplace, s.CardToAdd, s.Reason)
			}
			fmt.Println()
		}
	}
	if result.CommentaryError != "" {
		fmt.Printf("Commentary unavailable: %s\n", result.CommentaryError)
	}
	return nil
}

// inputDeck turns --deck into card references, or fetches --player's
// current deck. References are resolved against the catalog by the use case.
func (a *app) inputDeck(cmd *cobra.Command, deckFlag, playerFlag string) ([]domain.Card, error) {
	if playerFlag != "" {
		if a.api == nil {
			return nil, fmt.Errorf("game API token missing: set %s", a.cfg.API.TokenEnv)
		}
		player, err := a.player.CurrentDeck(cmd.Context(), playerFlag)
		if err != nil {
			return nil, err
		}
		fmt.Printf("Using current deck of %s (%s)\n", player.Name, player.Tag)
		return player.CurrentDeck, nil
	}

	refs := splitDeck(deckFlag)
	deck := make([]domain.Card, len(refs))
	for i, ref := range refs {
		deck[i] = domain.Card{ID: ref, Name: ref}
	}
	return deck, nil
}
