package stats

import (
	"fmt"
	"strings"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

const (
	BandCycle    = "cycle"
	BandBalanced = "balanced"
	BandBeatdown = "beatdown"

	cycleBelow    = 3.5
	beatdownAbove = 4.5

	minCurveCost = 1
	maxCurveCost = 9
)

var (
	winConditions = nameSet("Hog Rider", "Golem", "Royal Giant", "Goblin Giant", "Ram Rider",
		"Lava Hound", "Balloon", "X-Bow", "Mortar", "Graveyard", "Goblin Barrel", "Miner",
		"Three Musketeers", "Elixir Golem", "Battle Ram", "Wall Breakers", "Royal Hogs")
	bigSpells   = nameSet("Fireball", "Poison", "Lightning", "Rocket", "Freeze")
	smallSpells = nameSet("The Log", "Zap", "Snowball", "Arrows", "Tornado")
)

func nameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// IsWinCondition reports whether the card name is a known win condition.
func IsWinCondition(name string) bool {
	_, ok := winConditions[name]
	return ok
}

func IsBigSpell(name string) bool {
	_, ok := bigSpells[name]
	return ok
}

func IsSmallSpell(name string) bool {
	_, ok := smallSpells[name]
	return ok
}

// AverageElixir is the mean elixir cost over the cards given, 0 when empty.
func AverageElixir(deck []domain.Card) float64 {
	if len(deck) == 0 {
		return 0
	}
	total := 0
	for _, c := range deck {
		total += c.ElixirCost
	}
	return float64(total) / float64(len(deck))
}

// ElixirCurve counts cards per cost from 1 to 9. Costs outside that range are
// ignored. MaxAtAnyCost is at least 1 so it can be used as a divisor.
func ElixirCurve(deck []domain.Card) domain.ElixirCurve {
	curve := domain.ElixirCurve{Counts: make(map[int]int, maxCurveCost), MaxAtAnyCost: 1}
	for cost := minCurveCost; cost <= maxCurveCost; cost++ {
		curve.Counts[cost] = 0
	}
	for _, c := range deck {
		if c.ElixirCost < minCurveCost || c.ElixirCost > maxCurveCost {
			continue
		}
		curve.Counts[c.ElixirCost]++
		if curve.Counts[c.ElixirCost] > curve.MaxAtAnyCost {
			curve.MaxAtAnyCost = curve.Counts[c.ElixirCost]
		}
	}
	return curve
}

// Band buckets an average elixir cost.
func Band(avg float64) string {
	switch {
	case avg < cycleBelow:
		return BandCycle
	case avg > beatdownAbove:
		return BandBeatdown
	default:
		return BandBalanced
	}
}

// Analyze builds the heuristic report for a full deck.
func Analyze(deck []domain.Card) (*domain.DeckReport, error) {
	if len(deck) != domain.DeckSize {
		return nil, &domain.InvalidInputError{
			Reason: fmt.Sprintf("deck must have exactly %d cards, got %d", domain.DeckSize, len(deck)),
		}
	}

	report := &domain.DeckReport{
		AverageElixir: AverageElixir(deck),
		WinConditions: []string{},
		BigSpells:     []string{},
		SmallSpells:   []string{},
	}
	report.Band = Band(report.AverageElixir)

	for _, c := range deck {
		switch {
		case IsWinCondition(c.Name):
			report.WinConditions = append(report.WinConditions, c.Name)
		case IsBigSpell(c.Name):
			report.BigSpells = append(report.BigSpells, c.Name)
		case IsSmallSpell(c.Name):
			report.SmallSpells = append(report.SmallSpells, c.Name)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Average Elixir Cost: %.2f. ", report.AverageElixir)
	switch report.Band {
	case BandCycle:
		sb.WriteString("This is a fast cycle deck. ")
	case BandBeatdown:
		sb.WriteString("This is a heavy beatdown deck. ")
	default:
		sb.WriteString("This deck has a balanced elixir cost. ")
	}

	if len(report.WinConditions) == 0 {
		report.Warnings = append(report.Warnings, "This deck lacks a clear win condition.")
		sb.WriteString("Warning: This deck lacks a clear win condition. ")
	} else {
		fmt.Fprintf(&sb, "Win condition(s): %s. ", strings.Join(report.WinConditions, ", "))
	}
	if len(report.BigSpells) == 0 {
		report.Warnings = append(report.Warnings, "Consider adding a big spell for more control.")
		sb.WriteString("Consider adding a big spell for more control. ")
	}
	if len(report.SmallSpells) == 0 {
		report.Warnings = append(report.Warnings, "Consider adding a small spell for versatile defense.")
		sb.WriteString("Consider adding a small spell for versatile defense. ")
	}

	report.Summary = strings.TrimSpace(sb.String())
	return report, nil
}
