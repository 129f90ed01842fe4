package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narainsingaram/clash-royale-ai/internal/adapter/fs"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/memstore"
)

func writeDeckFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestImportDecks(t *testing.T) {
	dir := t.TempDir()
	writeDeckFile(t, dir, "hog.yaml", `
id: hog-26
label: Hog 2.6
cards: [26000021, Musketeer, Ice Golem, Fireball, The Log, Skeletons, Cannon, Ice Spirit]
`)
	writeDeckFile(t, dir, "list.json", `[
  {"label": "golem", "cards": [{"id": "26000009"}, {"name": "Night Witch"}]},
  {"id": "hog-26", "label": "Hog updated", "cards": ["Hog Rider"]}
]`)
	writeDeckFile(t, dir, "broken.yaml", "cards: [Unknown Card]")
	writeDeckFile(t, dir, "notes.txt", "ignored")

	st := memstore.NewMemoryStore()
	uc := NewImportUseCase(st, fs.NewWalker(nil, nil), staticCatalog(testCatalog))

	var seen []string
	result, err := uc.Import(context.Background(), dir, func(path string) {
		seen = append(seen, filepath.Base(path))
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"broken.yaml", "hog.yaml", "list.json"}, seen)
	assert.Equal(t, 2, result.FilesRead)
	assert.Equal(t, 1, result.FilesFailed)
	assert.Equal(t, 3, result.DecksImported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Unknown Card")

	corpus, err := st.Corpus()
	require.NoError(t, err)
	require.Len(t, corpus, 2)

	assert.Equal(t, "hog-26", corpus[0].ID)
	assert.Equal(t, "Hog updated", corpus[0].Label)
	assert.Equal(t, "file", corpus[0].Metadata["source"])

	assert.NotEmpty(t, corpus[1].ID)
	assert.Equal(t, "golem", corpus[1].Label)
	require.Len(t, corpus[1].Cards, 2)
	assert.Equal(t, "Golem", corpus[1].Cards[0].Name)
	assert.Equal(t, 8, corpus[1].Cards[0].ElixirCost)
	assert.Equal(t, "26000048", corpus[1].Cards[1].ID)
}

func TestImportRequiresCatalog(t *testing.T) {
	dir := t.TempDir()
	writeDeckFile(t, dir, "hog.yaml", "cards: [Hog Rider]")

	uc := NewImportUseCase(memstore.NewMemoryStore(), fs.NewWalker(nil, nil), staticCatalog(nil))
	_, err := uc.Import(context.Background(), dir, nil)
	assert.Error(t, err)
}

func TestImportLabelDefaultsToFileName(t *testing.T) {
	dir := t.TempDir()
	writeDeckFile(t, dir, "cycle.yml", "cards: [Hog Rider, Skeletons]")

	st := memstore.NewMemoryStore()
	uc := NewImportUseCase(st, fs.NewWalker(nil, nil), staticCatalog(testCatalog))
	_, err := uc.Import(context.Background(), dir, nil)
	require.NoError(t, err)

	corpus, err := st.Corpus()
	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, "cycle.yml", corpus[0].Label)
}
