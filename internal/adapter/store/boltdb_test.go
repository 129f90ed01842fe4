package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/narainsingaram/clash-royale-ai/config"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func deck(id string, cardIDs ...string) domain.CorpusDeck {
	cards := make([]domain.Card, len(cardIDs))
	for i, c := range cardIDs {
		cards[i] = domain.Card{ID: c, Name: "Card " + c}
	}
	return domain.CorpusDeck{ID: id, Label: "deck " + id, Cards: cards}
}

func TestCatalogRoundTripKeepsOrder(t *testing.T) {
	st := openTestStore(t)

	catalog := []domain.Card{
		{ID: "26000021", Name: "Hog Rider", ElixirCost: 4},
		{ID: "26000000", Name: "Knight", ElixirCost: 3},
		{ID: "28000000", Name: "Fireball", ElixirCost: 4},
	}
	require.NoError(t, st.PutCatalog(catalog))

	got, err := st.Catalog()
	require.NoError(t, err)
	assert.Equal(t, catalog, got)

	require.NoError(t, st.PutCatalog(catalog[:1]))
	got, err = st.Catalog()
	require.NoError(t, err)
	assert.Equal(t, catalog[:1], got)
}

func TestReplaceCorpus(t *testing.T) {
	st := openTestStore(t)

	at, err := st.CollectedAt()
	require.NoError(t, err)
	assert.True(t, at.IsZero())

	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	decks := []domain.CorpusDeck{deck("z", "A"), deck("a", "B"), deck("m", "C")}
	require.NoError(t, st.ReplaceCorpus(decks, now))

	got, err := st.Corpus()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "z", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "m", got[2].ID)

	at, err = st.CollectedAt()
	require.NoError(t, err)
	assert.True(t, now.Equal(at))

	require.NoError(t, st.ReplaceCorpus([]domain.CorpusDeck{deck("only", "D")}, now.Add(time.Hour)))
	got, err = st.Corpus()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].ID)
}

func TestAppendDecksUpserts(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.AppendDecks([]domain.CorpusDeck{deck("one", "A"), deck("two", "B")}))
	updated := deck("one", "X", "Y")
	require.NoError(t, st.AppendDecks([]domain.CorpusDeck{deck("three", "C"), updated}))

	got, err := st.Corpus()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, updated.Cards, got[0].Cards)
}

func TestAppendDecksRequiresID(t *testing.T) {
	st := openTestStore(t)
	err := st.AppendDecks([]domain.CorpusDeck{{Label: "anonymous"}})
	assert.Error(t, err)
}

func TestMigrationLifecycle(t *testing.T) {
	st := openTestStore(t)
	cfg := config.DefaultConfig()

	result, err := st.CheckMigration(cfg)
	require.NoError(t, err)
	assert.True(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)

	require.NoError(t, st.Migrate(cfg))
	result, err = st.CheckMigration(cfg)
	require.NoError(t, err)
	assert.False(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)

	changed := config.DefaultConfig()
	changed.Collect.Location = "57000249"
	result, err = st.CheckMigration(changed)
	require.NoError(t, err)
	assert.True(t, result.NeedsRebuild)
	assert.Equal(t, "collection configuration changed", result.Reason)
}

func TestMigrationFromV1RebuildsIDIndex(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.AppendDecks([]domain.CorpusDeck{deck("one", "A")}))

	// simulate a v1 file: version 1 and no id index
	require.NoError(t, st.SetSchemaInfo(&SchemaInfo{Version: 1}))
	require.NoError(t, st.db.Update(func(tx *bbolt.Tx) error {
		_, err := resetBucket(tx, bucketDeckIDs)
		return err
	}))

	require.NoError(t, st.Migrate(config.DefaultConfig()))
	require.NoError(t, st.AppendDecks([]domain.CorpusDeck{deck("one", "B")}))

	got, err := st.Corpus()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Cards[0].ID)
}

func TestClear(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.PutCatalog([]domain.Card{{ID: "A"}}))
	require.NoError(t, st.ReplaceCorpus([]domain.CorpusDeck{deck("one", "A")}, time.Now()))
	require.NoError(t, st.Migrate(config.DefaultConfig()))

	require.NoError(t, st.Clear())

	cards, err := st.Catalog()
	require.NoError(t, err)
	assert.Empty(t, cards)
	decks, err := st.Corpus()
	require.NoError(t, err)
	assert.Empty(t, decks)
	at, err := st.CollectedAt()
	require.NoError(t, err)
	assert.True(t, at.IsZero())

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
}
