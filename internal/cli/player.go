package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var playerJSON bool

var playerCmd = &cobra.Command{
	Use:   "player <tag>",
	Short: "Show a player's current deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.api == nil {
			return fmt.Errorf("game API token missing: set %s", a.cfg.API.TokenEnv)
		}
		player, err := a.player.CurrentDeck(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if playerJSON {
			return printJSON(player)
		}
		fmt.Printf("%s (%s), %d trophies\n", player.Name, player.Tag, player.Trophies)
		printDeck(player.CurrentDeck)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playerCmd)
	playerCmd.Flags().BoolVar(&playerJSON, "json", false, "output as JSON")
}
