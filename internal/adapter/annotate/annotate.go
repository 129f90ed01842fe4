// Package annotate attaches name-keyed card knowledge to decks: pairwise
// synergies, archetype suggestions and card roles. None of it feeds the
// similarity ranking.
package annotate

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

//go:embed synergies.yaml
var defaultTable []byte

type synergyEntry struct {
	Card        string  `yaml:"card"`
	Type        string  `yaml:"type"`
	Strength    float64 `yaml:"strength"`
	Description string  `yaml:"description"`
}

type potentialEntry struct {
	Archetype   string   `yaml:"archetype"`
	Suggestions []string `yaml:"suggestions"`
}

type table struct {
	Synergies map[string][]synergyEntry `yaml:"synergies"`
	Potential map[string]potentialEntry `yaml:"potential"`
	Types     map[string]string         `yaml:"types"`
	Roles     map[string][]string       `yaml:"roles"`
}

type Annotator struct {
	pairs     map[string]map[string]synergyEntry
	potential map[string]potentialEntry
	types     map[string]string

	winConditions map[string]struct{}
	spells        map[string]struct{}
	buildings     map[string]struct{}
}

var (
	defaultOnce      sync.Once
	defaultAnnotator *Annotator
	defaultErr       error
)

// Default returns the annotator built from the embedded table.
func Default() (*Annotator, error) {
	defaultOnce.Do(func() {
		defaultAnnotator, defaultErr = Parse(defaultTable)
	})
	return defaultAnnotator, defaultErr
}

// Parse builds an annotator from a YAML table.
func Parse(data []byte) (*Annotator, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse synergy table: %w", err)
	}

	a := &Annotator{
		pairs:         make(map[string]map[string]synergyEntry, len(t.Synergies)),
		potential:     t.Potential,
		types:         t.Types,
		winConditions: set(t.Roles["win_conditions"]),
		spells:        set(t.Roles["spells"]),
		buildings:     set(t.Roles["buildings"]),
	}
	if a.potential == nil {
		a.potential = map[string]potentialEntry{}
	}

	for from, entries := range t.Synergies {
		row := make(map[string]synergyEntry, len(entries))
		for _, e := range entries {
			if e.Strength < 0 || e.Strength > 1 {
				return nil, fmt.Errorf("synergy %s -> %s: strength %.2f out of range", from, e.Card, e.Strength)
			}
			row[e.Card] = e
		}
		a.pairs[from] = row
	}
	return a, nil
}

func set(names []string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// TypeDescription explains a synergy type such as "support" or "bait".
func (a *Annotator) TypeDescription(synergyType string) string {
	return a.types[synergyType]
}

// Synergies lists the known relationships between cards of the deck, one per
// unordered pair, strongest first. Ties keep deck order.
func (a *Annotator) Synergies(deck []domain.Card) []domain.Synergy {
	result := []domain.Synergy{}
	for i := 0; i < len(deck); i++ {
		for j := i + 1; j < len(deck); j++ {
			from, to := deck[i].Name, deck[j].Name
			if from == to {
				continue
			}
			e, ok := a.pairs[from][to]
			if !ok {
				if e, ok = a.pairs[to][from]; ok {
					from, to = to, from
				}
			}
			if !ok {
				continue
			}
			result = append(result, domain.Synergy{
				From:        from,
				To:          to,
				Type:        e.Type,
				Strength:    e.Strength,
				Description: e.Description,
			})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Strength > result[j].Strength
	})
	return result
}

// Suggestions proposes archetype completions for the anchor cards of a deck.
func (a *Annotator) Suggestions(deck []domain.Card) []domain.SynergySuggestion {
	present := make(map[string]struct{}, len(deck))
	for _, c := range deck {
		present[c.Name] = struct{}{}
	}

	result := []domain.SynergySuggestion{}
	seen := make(map[string]struct{})
	for _, c := range deck {
		p, ok := a.potential[c.Name]
		if !ok {
			continue
		}
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}

		missing := []string{}
		for _, s := range p.Suggestions {
			if _, have := present[s]; !have {
				missing = append(missing, s)
			}
		}
		result = append(result, domain.SynergySuggestion{
			Card:      c.Name,
			Archetype: p.Archetype,
			Missing:   missing,
		})
	}
	return result
}

// Roles groups the deck's cards. A card lands in the first matching group:
// win conditions, then spells, then buildings, then support.
func (a *Annotator) Roles(deck []domain.Card) domain.CardRoles {
	roles := domain.CardRoles{
		WinConditions: []string{},
		Spells:        []string{},
		Buildings:     []string{},
		Support:       []string{},
	}
	for _, c := range deck {
		switch {
		case has(a.winConditions, c.Name):
			roles.WinConditions = append(roles.WinConditions, c.Name)
		case has(a.spells, c.Name):
			roles.Spells = append(roles.Spells, c.Name)
		case has(a.buildings, c.Name):
			roles.Buildings = append(roles.Buildings, c.Name)
		default:
			roles.Support = append(roles.Support, c.Name)
		}
	}
	return roles
}

func has(s map[string]struct{}, name string) bool {
	_, ok := s[name]
	return ok
}
