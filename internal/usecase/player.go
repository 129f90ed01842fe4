package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// ErrNoCurrentDeck is returned when a player profile carries no deck.
var ErrNoCurrentDeck = errors.New("no current deck found for this player")

type PlayerUseCase struct {
	api port.RoyaleAPI
}

func NewPlayerUseCase(api port.RoyaleAPI) *PlayerUseCase {
	return &PlayerUseCase{api: api}
}

// CurrentDeck fetches the deck a player is using right now.
func (u *PlayerUseCase) CurrentDeck(ctx context.Context, tag string) (*port.Player, error) {
	if u.api == nil {
		return nil, fmt.Errorf("game API is not configured")
	}
	player, err := u.api.Player(ctx, tag)
	if err != nil {
		return nil, err
	}
	if len(player.CurrentDeck) == 0 {
		return nil, ErrNoCurrentDeck
	}
	return player, nil
}
