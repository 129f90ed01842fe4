package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	metaLimit int
	metaJSON  bool
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Report statistics over the collected meta decks",
}

var metaCardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Most used cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		cards, err := a.meta.PopularCards(cmd.Context(), limitOr(a.cfg.Meta.PopularCards))
		if err != nil {
			return err
		}
		if metaJSON {
			return printJSON(cards)
		}
		for i, c := range cards {
			fmt.Printf("%2d. %-24s %d decks\n", i+1, c.Name, c.Count)
		}
		return nil
	},
}

var metaDecksCmd = &cobra.Command{
	Use:   "decks",
	Short: "Most played decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		decks, err := a.meta.PopularDecks(cmd.Context(), limitOr(a.cfg.Meta.PopularDecks))
		if err != nil {
			return err
		}
		if metaJSON {
			return printJSON(decks)
		}
		for i, d := range decks {
			fmt.Printf("%d. played %d times\n   %s\n", i+1, d.Count, cardNames(d.Cards))
		}
		return nil
	},
}

var metaArchetypesCmd = &cobra.Command{
	Use:   "archetypes",
	Short: "Archetype distribution of the meta decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		shares, err := a.meta.ArchetypeDistribution(cmd.Context())
		if err != nil {
			return err
		}
		if metaJSON {
			return printJSON(shares)
		}
		for _, s := range shares {
			fmt.Printf("%-20s %3d  %5.1f%%\n", s.Archetype, s.Count, s.Percentage)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
	metaCmd.AddCommand(metaCardsCmd, metaDecksCmd, metaArchetypesCmd)
	metaCmd.PersistentFlags().IntVarP(&metaLimit, "limit", "n", 0, "number of entries (default from config)")
	metaCmd.PersistentFlags().BoolVar(&metaJSON, "json", false, "output as JSON")
}

func limitOr(def int) int {
	if metaLimit > 0 {
		return metaLimit
	}
	return def
}
