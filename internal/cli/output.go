package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// splitDeck parses a comma separated list of card names or ids.
func splitDeck(s string) []string {
	var refs []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			refs = append(refs, part)
		}
	}
	return refs
}

func cardNames(cards []domain.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

func printDeck(cards []domain.Card) {
	for i, c := range cards {
		fmt.Printf("  %d. %s (%d elixir)\n", i+1, c.Name, c.ElixirCost)
	}
}

func printErrors(errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Printf("\nErrors (%d):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("  - %s\n", e)
	}
}
