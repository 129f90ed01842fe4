package cli

import (
	"fmt"
	"log/slog"

	"github.com/narainsingaram/clash-royale-ai/config"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/annotate"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/cache"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/fs"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/llm"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/memstore"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/royale"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/stats"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/store"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
	"github.com/narainsingaram/clash-royale-ai/internal/usecase"
)

// app wires adapters and use cases for one command invocation.
type app struct {
	cfg   *config.Config
	store port.DeckStore
	api   port.RoyaleAPI
	llm   port.LLM

	catalog *usecase.CatalogUseCase
	collect *usecase.CollectUseCase
	imports *usecase.ImportUseCase
	similar *usecase.SimilarUseCase
	meta    *usecase.MetaUseCase
	analyze *usecase.AnalyzeUseCase
	player  *usecase.PlayerUseCase
}

func openApp() (*app, error) {
	cfg := GetConfig()
	dir := GetRootDir()

	st, err := openStore(cfg, dir)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: st}

	// Both remote services are optional: commands that need them report it.
	if client, err := royale.NewClientFromConfig(cfg.API); err != nil {
		slog.Debug("game API disabled", "error", err)
	} else {
		a.api = client
	}
	if cfg.LLM.Enabled {
		if client, err := llm.NewClientFromConfig(cfg.LLM); err != nil {
			slog.Debug("language model disabled", "error", err)
		} else {
			a.llm = client
		}
	}

	annotator, err := annotate.Default()
	if err != nil {
		st.Close()
		return nil, err
	}

	var classifier port.ArchetypeClassifier = stats.BandClassifier{}
	if a.llm != nil {
		classifier = llm.NewArchetypeClassifier(a.llm, cfg.Meta.Archetypes)
	}

	a.catalog = usecase.NewCatalogUseCase(a.api, st)
	a.collect = usecase.NewCollectUseCase(a.api, st, cfg.Collect)
	a.imports = usecase.NewImportUseCase(st, fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes), a.catalog)
	a.similar = usecase.NewSimilarUseCase(a.catalog, a.collect, a.llm, cfg.Similar.TopN, cfg.Collect.TTL, cache.SystemClock)
	a.meta = usecase.NewMetaUseCase(a.collect, classifier, cfg.Meta.ArchetypeTTL, cache.SystemClock)
	a.analyze = usecase.NewAnalyzeUseCase(a.catalog, annotator, a.llm)
	a.player = usecase.NewPlayerUseCase(a.api)
	return a, nil
}

func openStore(cfg *config.Config, dir string) (port.DeckStore, error) {
	if ephemeral {
		return memstore.NewMemoryStore(), nil
	}

	if err := config.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.NewBoltStore(config.StoreDBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open deck store: %w", err)
	}

	migration, err := st.CheckMigration(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to check migration: %w", err)
	}
	if migration.NeedsRebuild {
		fmt.Printf("Deck store reset: %s\n", migration.Reason)
		if err := st.Clear(); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to clear deck store: %w", err)
		}
	}
	if migration.NeedsRebuild || migration.NeedsMigration {
		if err := st.Migrate(cfg); err != nil {
			st.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return st, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
