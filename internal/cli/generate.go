package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

var (
	generatePrefs domain.DeckPreferences
	generateJSON  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Ask the language model to build a deck",
	Long: `Generate an eight card deck from the catalog that fits the given preferences.

Examples:
  royale generate --archetype Cycle --elixir Low
  royale generate --win-condition "Hog Rider" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.llm == nil {
			return fmt.Errorf("language model unavailable: enable llm and set %s", a.cfg.LLM.APIKeyEnv)
		}

		fmt.Printf("Generating with %s...\n", a.llm.ModelName())
		generated, err := a.analyze.Generate(cmd.Context(), generatePrefs)
		if err != nil {
			return err
		}
		if generateJSON {
			return printJSON(generated)
		}
		printDeck(generated.Cards)
		if generated.Explanation != "" {
			fmt.Printf("\n%s\n", generated.Explanation)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generatePrefs.Archetype, "archetype", "", "preferred archetype (default Any)")
	generateCmd.Flags().StringVar(&generatePrefs.Elixir, "elixir", "", "elixir preference: Low, Balanced or High")
	generateCmd.Flags().StringVar(&generatePrefs.WinCondition, "win-condition", "", "preferred win condition (default Any)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output as JSON")
}
