package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cardsJSON bool

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage the card catalog",
}

var cardsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the card catalog from the game API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		cards, err := a.catalog.Sync(cmd.Context())
		if err != nil {
			return fmt.Errorf("catalog sync failed: %w", err)
		}
		fmt.Printf("Synced %d cards\n", len(cards))
		return nil
	},
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cards in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		cards, err := a.catalog.Cards(cmd.Context())
		if err != nil {
			return err
		}
		if cardsJSON {
			return printJSON(cards)
		}
		if len(cards) == 0 {
			fmt.Println("Catalog is empty. Run 'royale cards sync' first.")
			return nil
		}
		for _, c := range cards {
			fmt.Printf("%-10s %-24s %2d  %s\n", c.ID, c.Name, c.ElixirCost, c.Rarity)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cardsCmd)
	cardsCmd.AddCommand(cardsSyncCmd, cardsListCmd)
	cardsListCmd.Flags().BoolVar(&cardsJSON, "json", false, "output as JSON")
}
