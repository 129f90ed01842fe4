package port

import (
	"context"

	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

// RoyaleAPI is the subset of the game's public API the app consumes.
type RoyaleAPI interface {
	Cards(ctx context.Context) ([]domain.Card, error)

	TopPlayers(ctx context.Context, location string, limit int) ([]RankedPlayer, error)

	Player(ctx context.Context, tag string) (*Player, error)
}

type RankedPlayer struct {
	Tag      string
	Name     string
	Rank     int
	Trophies int
}

type Player struct {
	Tag         string
	Name        string
	Trophies    int
	CurrentDeck []domain.Card
}
