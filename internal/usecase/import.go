package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/narainsingaram/clash-royale-ai/internal/adapter/fs"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// ImportUseCase loads hand-curated decks from files into the corpus.
type ImportUseCase struct {
	store   port.DeckStore
	walker  port.FileWalker
	catalog CatalogSource
	now     func() time.Time
	logger  *slog.Logger
}

func NewImportUseCase(store port.DeckStore, walker port.FileWalker, catalog CatalogSource) *ImportUseCase {
	return &ImportUseCase{
		store:   store,
		walker:  walker,
		catalog: catalog,
		now:     time.Now,
		logger:  slog.Default().With("component", "import"),
	}
}

// ImportResult contains the results of an import operation.
type ImportResult struct {
	FilesRead     int
	FilesFailed   int
	DecksImported int
	Errors        []string
}

// ImportProgressFunc is called after each file with the file path.
type ImportProgressFunc func(path string)

// Files lists the deck files Import would read.
func (u *ImportUseCase) Files(root string) ([]port.FileInfo, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	return files, nil
}

// Import reads every deck file under root and upserts its decks. A file that
// fails to parse or names unknown cards is recorded in Errors and skipped.
func (u *ImportUseCase) Import(ctx context.Context, root string, progress ImportProgressFunc) (*ImportResult, error) {
	files, err := u.Files(root)
	if err != nil {
		return nil, err
	}

	catalog, err := u.catalog.Cards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("card catalog is empty, sync it before importing decks")
	}

	result := &ImportResult{}
	var decks []domain.CorpusDeck
	importedAt := u.now().UTC()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileDecks, err := u.importFile(file.Path, catalog, importedAt)
		if progress != nil {
			progress(file.Path)
		}
		if err != nil {
			result.FilesFailed++
			result.Errors = append(result.Errors, err.Error())
			u.logger.Warn("skipping deck file", "path", file.Path, "error", err)
			continue
		}

		result.FilesRead++
		decks = append(decks, fileDecks...)
	}

	if len(decks) > 0 {
		if err := u.store.AppendDecks(decks); err != nil {
			return nil, fmt.Errorf("failed to store decks: %w", err)
		}
	}
	result.DecksImported = len(decks)

	u.logger.Info("import finished", "files", result.FilesRead, "failed", result.FilesFailed, "decks", result.DecksImported)
	return result, nil
}

func (u *ImportUseCase) importFile(path string, catalog []domain.Card, importedAt time.Time) ([]domain.CorpusDeck, error) {
	entries, err := fs.ReadDecks(path)
	if err != nil {
		return nil, err
	}

	decks := make([]domain.CorpusDeck, 0, len(entries))
	for i, entry := range entries {
		deck, err := toCorpusDeck(entry, catalog, importedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: deck %d: %w", path, i, err)
		}
		if deck.Label == "" {
			deck.Label = filepath.Base(path)
		}
		if deck.Metadata == nil {
			deck.Metadata = map[string]string{}
		}
		deck.Metadata["source"] = "file"
		decks = append(decks, deck)
	}
	return decks, nil
}

func toCorpusDeck(entry fs.DeckFile, catalog []domain.Card, importedAt time.Time) (domain.CorpusDeck, error) {
	cards := make([]domain.Card, 0, len(entry.Cards))
	for _, ref := range entry.Cards {
		if ref.Ref != "" {
			cards = append(cards, domain.Card{ID: ref.Ref, Name: ref.Ref})
			continue
		}
		cards = append(cards, domain.Card{ID: ref.ID, Name: ref.Name})
	}

	resolved, unresolved := ResolveCards(catalog, cards)
	if len(unresolved) > 0 {
		return domain.CorpusDeck{}, &domain.InvalidInputError{
			Reason: fmt.Sprintf("unknown cards: %v", unresolved),
		}
	}

	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	return domain.CorpusDeck{
		ID:          id,
		Label:       entry.Label,
		PlayerTag:   entry.PlayerTag,
		Trophies:    entry.Trophies,
		Cards:       resolved,
		CollectedAt: importedAt,
		Metadata:    entry.Metadata,
	}, nil
}
