package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var collectForce bool

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect the current decks of top-ranked players",
	Long: `Fetch the top players of the configured location and store each player's
current deck as the meta corpus. A stored corpus younger than collect.ttl is
kept unless --force is given.`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().BoolVarP(&collectForce, "force", "f", false, "collect even if the stored corpus is fresh")
}

func runCollect(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.api == nil {
		return fmt.Errorf("game API token missing: set %s", a.cfg.API.TokenEnv)
	}

	if !collectForce {
		collected, err := a.store.CollectedAt()
		if err != nil {
			return fmt.Errorf("failed to read collection time: %w", err)
		}
		if !collected.IsZero() && time.Since(collected) < a.cfg.Collect.TTL {
			fmt.Printf("Corpus collected at %s is still fresh (use --force to refresh)\n",
				collected.Format("2006-01-02 15:04"))
			return nil
		}
	}

	fmt.Printf("Collecting top %d players (%s)...\n", a.cfg.Collect.TopPlayers, a.cfg.Collect.Location)

	bar := newProgress("Collecting")
	result, err := a.collect.Collect(cmd.Context(), bar.update)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	fmt.Printf("\nCollection complete:\n")
	fmt.Printf("  Players:        %d\n", result.Players)
	fmt.Printf("  Decks stored:   %d\n", len(result.Decks))
	fmt.Printf("  Failed players: %d\n", result.Failed)
	fmt.Printf("  Skipped decks:  %d\n", result.Skipped)
	printErrors(result.Errors)
	return nil
}
