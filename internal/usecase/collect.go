package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/narainsingaram/clash-royale-ai/config"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// CorpusLoader supplies the meta deck corpus. force skips any freshness
// check and refreshes the corpus from its source.
type CorpusLoader interface {
	Load(ctx context.Context, force bool) ([]domain.CorpusDeck, error)
}

// ProgressFunc is called after each player profile is processed.
type ProgressFunc func(done, total int)

// CollectUseCase gathers the current decks of top-ranked players.
type CollectUseCase struct {
	api    port.RoyaleAPI
	store  port.DeckStore
	cfg    config.CollectConfig
	now    func() time.Time
	logger *slog.Logger
}

// NewCollectUseCase creates a collect use case. api may be nil, in which
// case Load serves whatever corpus is stored.
func NewCollectUseCase(api port.RoyaleAPI, store port.DeckStore, cfg config.CollectConfig) *CollectUseCase {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &CollectUseCase{
		api:    api,
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		logger: slog.Default().With("component", "collect"),
	}
}

// CollectResult contains the results of a collection run.
type CollectResult struct {
	Players     int
	Failed      int
	Skipped     int
	Decks       []domain.CorpusDeck
	CollectedAt time.Time
	Errors      []string
}

// Collect fetches the ranking, then every listed player's current deck.
// Decks keep ranking order. Players whose profile cannot be fetched are
// logged and skipped, and so are decks that are not full.
func (u *CollectUseCase) Collect(ctx context.Context, progress ProgressFunc) (*CollectResult, error) {
	if u.api == nil {
		return nil, fmt.Errorf("game API is not configured")
	}

	players, err := u.api.TopPlayers(ctx, u.cfg.Location, u.cfg.TopPlayers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top players: %w", err)
	}

	collectedAt := u.now().UTC()
	result := &CollectResult{Players: len(players), CollectedAt: collectedAt}
	slots := make([]*domain.CorpusDeck, len(players))

	var (
		mu   sync.Mutex
		done int
	)
	finish := func(update func()) {
		mu.Lock()
		defer mu.Unlock()
		if update != nil {
			update()
		}
		done++
		if progress != nil {
			progress(done, len(players))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.Concurrency)

	for i, ranked := range players {
		i, ranked := i, ranked
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			player, err := u.api.Player(gctx, ranked.Tag)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				u.logger.Warn("failed to fetch player", "tag", ranked.Tag, "error", err)
				finish(func() {
					result.Failed++
					result.Errors = append(result.Errors, fmt.Sprintf("player %s: %v", ranked.Tag, err))
				})
				return nil
			}

			if len(player.CurrentDeck) != domain.DeckSize {
				u.logger.Debug("skipping incomplete deck", "tag", ranked.Tag, "cards", len(player.CurrentDeck))
				finish(func() { result.Skipped++ })
				return nil
			}

			trophies := player.Trophies
			if trophies == 0 {
				trophies = ranked.Trophies
			}
			slots[i] = &domain.CorpusDeck{
				ID:          player.Tag,
				Label:       player.Name,
				PlayerTag:   player.Tag,
				Trophies:    trophies,
				Cards:       player.CurrentDeck,
				CollectedAt: collectedAt,
				Metadata: map[string]string{
					"source": "ranking",
					"rank":   strconv.Itoa(ranked.Rank),
				},
			}
			finish(nil)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collection interrupted: %w", err)
	}

	for _, deck := range slots {
		if deck != nil {
			result.Decks = append(result.Decks, *deck)
		}
	}

	if len(result.Decks) == 0 && len(players) > 0 {
		return result, fmt.Errorf("no complete decks collected from %d players", len(players))
	}

	if err := u.store.ReplaceCorpus(result.Decks, collectedAt); err != nil {
		return nil, fmt.Errorf("failed to store corpus: %w", err)
	}

	u.logger.Info("collection finished",
		"players", result.Players,
		"decks", len(result.Decks),
		"failed", result.Failed,
		"skipped", result.Skipped)
	return result, nil
}

// Load returns the stored corpus while it is younger than the configured TTL
// and collects a fresh one otherwise.
func (u *CollectUseCase) Load(ctx context.Context, force bool) ([]domain.CorpusDeck, error) {
	if u.api == nil {
		return u.stored()
	}

	if !force {
		collectedAt, err := u.store.CollectedAt()
		if err != nil {
			return nil, fmt.Errorf("failed to read collection time: %w", err)
		}
		if !collectedAt.IsZero() && u.now().Sub(collectedAt) < u.cfg.TTL {
			u.logger.Debug("serving stored corpus", "collected_at", collectedAt)
			return u.stored()
		}
	}

	result, err := u.Collect(ctx, nil)
	if err != nil {
		return nil, err
	}
	return result.Decks, nil
}

func (u *CollectUseCase) stored() ([]domain.CorpusDeck, error) {
	decks, err := u.store.Corpus()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return decks, nil
}
