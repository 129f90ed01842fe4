package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

var testCatalog = []domain.Card{
	{ID: "26000021", Name: "Hog Rider", ElixirCost: 4, Rarity: "Rare"},
	{ID: "26000014", Name: "Musketeer", ElixirCost: 4, Rarity: "Rare"},
	{ID: "26000038", Name: "Ice Golem", ElixirCost: 2, Rarity: "Rare"},
	{ID: "28000000", Name: "Fireball", ElixirCost: 4, Rarity: "Rare"},
	{ID: "28000011", Name: "The Log", ElixirCost: 2, Rarity: "Legendary"},
	{ID: "26000010", Name: "Skeletons", ElixirCost: 1, Rarity: "Common"},
	{ID: "27000000", Name: "Cannon", ElixirCost: 3, Rarity: "Common"},
	{ID: "26000030", Name: "Ice Spirit", ElixirCost: 1, Rarity: "Common"},
	{ID: "26000000", Name: "Knight", ElixirCost: 3, Rarity: "Common"},
	{ID: "26000009", Name: "Golem", ElixirCost: 8, Rarity: "Epic"},
	{ID: "26000048", Name: "Night Witch", ElixirCost: 4, Rarity: "Legendary"},
	{ID: "26000015", Name: "Baby Dragon", ElixirCost: 4, Rarity: "Epic"},
}

func cardsByName(names ...string) []domain.Card {
	out := make([]domain.Card, 0, len(names))
	for _, n := range names {
		for _, c := range testCatalog {
			if c.Name == n {
				out = append(out, c)
			}
		}
	}
	return out
}

func hogCycle() []domain.Card {
	return cardsByName("Hog Rider", "Musketeer", "Ice Golem", "Fireball", "The Log", "Skeletons", "Cannon", "Ice Spirit")
}

func golemBeatdown() []domain.Card {
	return cardsByName("Golem", "Night Witch", "Baby Dragon", "Fireball", "The Log", "Knight", "Musketeer", "Ice Golem")
}

type fakeAPI struct {
	mu       sync.Mutex
	cards    []domain.Card
	ranking  []port.RankedPlayer
	players  map[string]*port.Player
	failing  map[string]error
	rankErr  error
	requests []string
}

func (f *fakeAPI) Cards(context.Context) ([]domain.Card, error) {
	return f.cards, nil
}

func (f *fakeAPI) TopPlayers(_ context.Context, location string, limit int) ([]port.RankedPlayer, error) {
	if f.rankErr != nil {
		return nil, f.rankErr
	}
	if limit > 0 && limit < len(f.ranking) {
		return f.ranking[:limit], nil
	}
	return f.ranking, nil
}

func (f *fakeAPI) Player(_ context.Context, tag string) (*port.Player, error) {
	f.mu.Lock()
	f.requests = append(f.requests, tag)
	f.mu.Unlock()
	if err := f.failing[tag]; err != nil {
		return nil, err
	}
	p, ok := f.players[tag]
	if !ok {
		return nil, fmt.Errorf("player %s not found", tag)
	}
	return p, nil
}

type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
	json    []bool
}

func (f *fakeLLM) Complete(_ context.Context, prompt string, jsonMode bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.json = append(f.json, jsonMode)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", fmt.Errorf("no reply scripted")
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeLLM) ModelName() string { return "fake" }

// keywordClassifier labels decks by their first card name and fails on decks
// containing "Knight".
type keywordClassifier struct {
	calls int
}

func (k *keywordClassifier) Classify(_ context.Context, deck []domain.Card) (string, error) {
	k.calls++
	for _, c := range deck {
		if c.Name == "Knight" {
			return "", fmt.Errorf("model unavailable")
		}
	}
	return strings.Split(deck[0].Name, " ")[0], nil
}

type staticCorpus struct {
	decks []domain.CorpusDeck
	err   error
}

func (s *staticCorpus) Load(context.Context, bool) ([]domain.CorpusDeck, error) {
	return s.decks, s.err
}

type staticCatalog []domain.Card

func (s staticCatalog) Cards(context.Context) ([]domain.Card, error) {
	return s, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
