package llm

import (
	"fmt"
	"strings"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

func describeCards(deck []domain.Card) string {
	var sb strings.Builder
	for _, card := range deck {
		fmt.Fprintf(&sb, "- %s (Elixir: %d, Rarity: %s)\n", card.Name, card.ElixirCost, card.Rarity)
	}
	return sb.String()
}

// SimilarDecksPrompt asks for commentary on the decks the ranker found.
func SimilarDecksPrompt(userDeck []domain.Card, ranked []domain.SimilarityResult) string {
	var sb strings.Builder
	sb.WriteString("You are a Clash Royale expert deck analyst. A user has provided their deck, and we have algorithmically identified several real, top-performing meta decks that are most similar. Provide insightful commentary on the user's deck in comparison to these similar meta decks.\n\n")
	sb.WriteString("User's Deck:\n")
	sb.WriteString(describeCards(userDeck))
	sb.WriteString("\nTop Algorithmically Similar Meta Decks (with similarity score and full card details):\n")
	for _, r := range ranked {
		fmt.Fprintf(&sb, "- Name: Meta Deck from Player %s (Trophies: %d)\n", r.Deck.PlayerTag, r.Deck.Trophies)
		fmt.Fprintf(&sb, "  Similarity Score: %.2f\n", r.Score)
		names := make([]string, len(r.Deck.Cards))
		for i, c := range r.Deck.Cards {
			names[i] = fmt.Sprintf("%s (ID: %s, Elixir: %d, Rarity: %s)", c.Name, c.ID, c.ElixirCost, c.Rarity)
		}
		fmt.Fprintf(&sb, "  Cards: %s\n", strings.Join(names, ", "))
	}
	sb.WriteString(`
Respond with a JSON object:
{
  "identifiedArchetype": "string",
  "similarMetaDecks": [
    {
      "name": "string",
      "coreStrategy": "string",
      "similarityExplanation": "string",
      "keyDifferences": "string",
      "suggestedSwapsToMatch": [{"cardToReplace": "string", "cardToAdd": "string", "reason": "string"}]
    }
  ]
}
List the meta decks in the order given. Use Clash Royale terminology. Do NOT include any text outside the JSON.
`)
	return sb.String()
}

// AnalysisPrompt asks for a structured critique of one deck.
func AnalysisPrompt(deck []domain.Card, avgElixir float64) string {
	var sb strings.Builder
	sb.WriteString("You are a Clash Royale expert. Analyze the following deck for competitive play.\n\n")
	sb.WriteString("Deck:\n")
	sb.WriteString(describeCards(deck))
	fmt.Fprintf(&sb, "Average elixir: %.1f\n", avgElixir)
	sb.WriteString(`
Respond with a JSON object:
{
  "deckOverview": {"archetype": "string", "playstyle": "string", "elixirComment": "string"},
  "strengths": [{"title": "string", "description": "string"}],
  "weaknesses": [{"title": "string", "description": "string"}],
  "synergies": [{"title": "string", "description": "string"}],
  "suggestedImprovements": [{"cardToReplace": "string", "reasonToReplace": "string", "cardToAdd": "string", "reasonToAdd": "string"}]
}
Do NOT include any text outside the JSON.
`)
	return sb.String()
}

// ArchetypePrompt asks for a single archetype name from a fixed list.
func ArchetypePrompt(deck []domain.Card, archetypes []string) string {
	return fmt.Sprintf(`You are a Clash Royale expert. Identify the most likely archetype of the following deck from the list: %s. If none fit perfectly, choose the closest one or suggest a new one if it's truly unique.

Deck:
%s
Provide only the archetype name as a plain string. Do NOT include any other text or markdown.
`, strings.Join(archetypes, ", "), describeCards(deck))
}

// GeneratePrompt asks for a new deck built from the available cards.
func GeneratePrompt(prefs domain.DeckPreferences, available []domain.Card) string {
	orAny := func(s, fallback string) string {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString("You are a Clash Royale expert deck builder. Create a highly optimized 8-card deck based on the user's preferences and the provided list of available cards. The deck should be cohesive, meta-relevant, and have strong synergies.\n\n")
	sb.WriteString("User Preferences:\n")
	fmt.Fprintf(&sb, "- Archetype: %s\n", orAny(prefs.Archetype, "Any"))
	fmt.Fprintf(&sb, "- Elixir Cost Preference: %s\n", orAny(prefs.Elixir, "Balanced"))
	fmt.Fprintf(&sb, "- Win Condition Preference: %s\n\n", orAny(prefs.WinCondition, "Any"))
	sb.WriteString("Available Cards (ID, Name, Elixir, Rarity):\n")
	for _, c := range available {
		fmt.Fprintf(&sb, "- %s, %s, %d, %s\n", c.ID, c.Name, c.ElixirCost, c.Rarity)
	}
	sb.WriteString(`
Select exactly 8 distinct cards from the Available Cards list. Respond with a JSON object:
{
  "generatedDeck": [{"id": "string", "name": "string"}],
  "explanation": "string"
}
`)
	return sb.String()
}
