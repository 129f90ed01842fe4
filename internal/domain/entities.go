package domain

import "time"

// DeckSize is the number of cards in a playable deck.
const DeckSize = 8

type Card struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	ElixirCost int    `json:"elixirCost,omitempty" yaml:"elixir_cost,omitempty"`
	Rarity     string `json:"rarity,omitempty" yaml:"rarity,omitempty"`
	MaxLevel   int    `json:"maxLevel,omitempty" yaml:"max_level,omitempty"`
	IconURL    string `json:"iconUrl,omitempty" yaml:"icon_url,omitempty"`
}

// CorpusDeck is a previously collected deck. Everything except Cards is
// carried through ranking untouched.
type CorpusDeck struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	PlayerTag   string            `json:"playerTag,omitempty"`
	Trophies    int               `json:"trophies,omitempty"`
	Cards       []Card            `json:"deck"`
	CollectedAt time.Time         `json:"collectedAt"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type SimilarityResult struct {
	Deck  CorpusDeck `json:"deck"`
	Score float64    `json:"similarity"`
}

type PopularCard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	IconURL string `json:"iconUrl,omitempty"`
}

type PopularDeck struct {
	Signature string `json:"signature"`
	Count     int    `json:"count"`
	Cards     []Card `json:"deck"`
}

type ArchetypeShare struct {
	Archetype  string  `json:"archetype"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ElixirCurve struct {
	Counts       map[int]int `json:"counts"`
	MaxAtAnyCost int         `json:"maxAtAnyCost"`
}

type DeckReport struct {
	AverageElixir float64  `json:"averageElixir"`
	Band          string   `json:"band"`
	WinConditions []string `json:"winConditions"`
	BigSpells     []string `json:"bigSpells"`
	SmallSpells   []string `json:"smallSpells"`
	Warnings      []string `json:"warnings,omitempty"`
	Summary       string   `json:"summary"`
}

type Synergy struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Type        string  `json:"type"`
	Strength    float64 `json:"strength"`
	Description string  `json:"description"`
}

type SynergySuggestion struct {
	Card      string   `json:"card"`
	Archetype string   `json:"archetype"`
	Missing   []string `json:"missing"`
}

type CardRoles struct {
	WinConditions []string `json:"winConditions"`
	Spells        []string `json:"spells"`
	Buildings     []string `json:"buildings"`
	Support       []string `json:"supportCards"`
}

// AnalysisReport is the LLM critique of a single deck.
type AnalysisReport struct {
	DeckOverview          *DeckOverview     `json:"deckOverview,omitempty"`
	Strengths             []TitledNote      `json:"strengths"`
	Weaknesses            []TitledNote      `json:"weaknesses"`
	Synergies             []TitledNote      `json:"synergies"`
	SuggestedImprovements []CardImprovement `json:"suggestedImprovements"`
}

type DeckOverview struct {
	Archetype     string `json:"archetype"`
	Playstyle     string `json:"playstyle"`
	ElixirComment string `json:"elixirComment"`
}

type TitledNote struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CardImprovement struct {
	CardToReplace   string `json:"cardToReplace"`
	ReasonToReplace string `json:"reasonToReplace"`
	CardToAdd       string `json:"cardToAdd"`
	ReasonToAdd     string `json:"reasonToAdd"`
}

// SimilarDeckReport is the LLM commentary over a similarity ranking.
type SimilarDeckReport struct {
	IdentifiedArchetype string            `json:"identifiedArchetype"`
	SimilarMetaDecks    []SimilarMetaDeck `json:"similarMetaDecks"`
}

type SimilarMetaDeck struct {
	Name                  string     `json:"name"`
	CoreStrategy          string     `json:"coreStrategy"`
	SimilarityExplanation string     `json:"similarityExplanation"`
	KeyDifferences        string     `json:"keyDifferences"`
	SuggestedSwapsToMatch []CardSwap `json:"suggestedSwapsToMatch,omitempty"`
	Cards                 []Card     `json:"cards"`
	Similarity            float64    `json:"similarity"`
}

type CardSwap struct {
	CardToReplace string `json:"cardToReplace"`
	CardToAdd     string `json:"cardToAdd"`
	Reason        string `json:"reason"`
}

type DeckPreferences struct {
	Archetype    string `json:"archetype"`
	Elixir       string `json:"elixirPreference"`
	WinCondition string `json:"winConditionPreference"`
}

type GeneratedDeck struct {
	Cards       []Card `json:"generatedDeck"`
	Explanation string `json:"explanation"`
}
