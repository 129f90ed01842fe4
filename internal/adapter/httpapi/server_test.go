package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narainsingaram/clash-royale-ai/config"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/annotate"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/memstore"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/royale"
	"github.com/narainsingaram/clash-royale-ai/internal/adapter/stats"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
	"github.com/narainsingaram/clash-royale-ai/internal/usecase"
)

var catalog = []domain.Card{
	{ID: "1", Name: "Hog Rider", ElixirCost: 4},
	{ID: "2", Name: "Musketeer", ElixirCost: 4},
	{ID: "3", Name: "Ice Golem", ElixirCost: 2},
	{ID: "4", Name: "Fireball", ElixirCost: 4},
	{ID: "5", Name: "The Log", ElixirCost: 2},
	{ID: "6", Name: "Skeletons", ElixirCost: 1},
	{ID: "7", Name: "Cannon", ElixirCost: 3},
	{ID: "8", Name: "Ice Spirit", ElixirCost: 1},
	{ID: "9", Name: "Knight", ElixirCost: 3},
	{ID: "10", Name: "Golem", ElixirCost: 8},
}

type fakeAPI struct {
	players map[string]*port.Player
	apiErr  error
}

func (f *fakeAPI) Cards(context.Context) ([]domain.Card, error) { return catalog, nil }

func (f *fakeAPI) TopPlayers(context.Context, string, int) ([]port.RankedPlayer, error) {
	if f.apiErr != nil {
		return nil, f.apiErr
	}
	var out []port.RankedPlayer
	for i := 1; i <= len(f.players); i++ {
		out = append(out, port.RankedPlayer{Tag: fmt.Sprintf("#P%d", i), Rank: i})
	}
	return out, nil
}

func (f *fakeAPI) Player(_ context.Context, tag string) (*port.Player, error) {
	tag = "#" + royale.NormalizeTag(tag)
	p, ok := f.players[tag]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", tag, royale.ErrNotFound)
	}
	return p, nil
}

type fakeLLM struct{ reply string }

func (f *fakeLLM) Complete(context.Context, string, bool) (string, error) { return f.reply, nil }
func (f *fakeLLM) ModelName() string                                      { return "fake" }

func fullDeck() []domain.Card {
	return append([]domain.Card(nil), catalog[:8]...)
}

func newTestServer(t *testing.T, api *fakeAPI, llm port.LLM) *Server {
	t.Helper()
	st := memstore.NewMemoryStore()
	annotator, err := annotate.Default()
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Collect.Concurrency = 2

	catalogUC := usecase.NewCatalogUseCase(api, st)
	collectUC := usecase.NewCollectUseCase(api, st, cfg.Collect)
	return NewServer(Services{
		Catalog:      catalogUC,
		Collect:      collectUC,
		Similar:      usecase.NewSimilarUseCase(catalogUC, collectUC, llm, 3, time.Hour, nil),
		Meta:         usecase.NewMetaUseCase(collectUC, stats.BandClassifier{}, time.Hour, nil),
		Analyze:      usecase.NewAnalyzeUseCase(catalogUC, annotator, llm),
		Player:       usecase.NewPlayerUseCase(api),
		PopularCards: 10,
		PopularDecks: 5,
	})
}

func defaultAPI() *fakeAPI {
	golem := fullDeck()
	golem[0] = catalog[9]
	return &fakeAPI{players: map[string]*port.Player{
		"#P1": {Tag: "#P1", Name: "one", Trophies: 9000, CurrentDeck: fullDeck()},
		"#P2": {Tag: "#P2", Name: "two", Trophies: 8000, CurrentDeck: golem},
	}}
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestCardsRoute(t *testing.T) {
	s := newTestServer(t, defaultAPI(), nil)
	rec, out := do(t, s, http.MethodGet, "/api/cards", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []domain.Card
	require.NoError(t, json.Unmarshal(out["items"], &items))
	assert.Len(t, items, len(catalog))
}

func TestCollectMetaDecksRoute(t *testing.T) {
	s := newTestServer(t, defaultAPI(), nil)
	rec, out := do(t, s, http.MethodGet, "/api/collect-meta-decks?force=true", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var decks []domain.CorpusDeck
	require.NoError(t, json.Unmarshal(out["metaDecks"], &decks))
	require.Len(t, decks, 2)
	assert.Equal(t, "#P1", decks[0].PlayerTag)
}

func TestCollectUpstreamFailure(t *testing.T) {
	api := defaultAPI()
	api.apiErr = &royale.APIError{Status: http.StatusForbidden, Reason: "accessDenied"}
	s := newTestServer(t, api, nil)

	rec, out := do(t, s, http.MethodGet, "/api/collect-meta-decks", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, string(out["error"]), "accessDenied")
}

func TestSimilarDecksRoute(t *testing.T) {
	s := newTestServer(t, defaultAPI(), nil)

	body := `{"userDeck": [{"id":"1"},{"id":"2"},{"id":"3"},{"id":"4"},{"id":"5"},{"id":"6"},{"id":"7"},{"id":"8"}], "explain": false}`
	rec, out := do(t, s, http.MethodPost, "/api/similar-decks", body)
	require.Equal(t, http.StatusOK, rec.Code, string(out["error"]))

	var ranked []domain.SimilarityResult
	require.NoError(t, json.Unmarshal(out["similarDecks"], &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "#P1", ranked[0].Deck.PlayerTag)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-12)
	assert.InDelta(t, 0.875, ranked[1].Score, 1e-12)
	_, hasReport := out["similarDecksData"]
	assert.False(t, hasReport)
}

func TestSimilarDecksWithCommentary(t *testing.T) {
	llm := &fakeLLM{reply: `{"identifiedArchetype": "Hog Cycle", "similarMetaDecks": [{"name": "2.6"}]}`}
	s := newTestServer(t, defaultAPI(), llm)

	rec, out := do(t, s, http.MethodPost, "/api/similar-decks", `{"userDeck": [{"name":"Hog Rider"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report domain.SimilarDeckReport
	require.NoError(t, json.Unmarshal(out["similarDecksData"], &report))
	assert.Equal(t, "Hog Cycle", report.IdentifiedArchetype)
	require.Len(t, report.SimilarMetaDecks, 1)
	assert.Len(t, report.SimilarMetaDecks[0].Cards, 8)
}

func TestSimilarDecksBadRequest(t *testing.T) {
	s := newTestServer(t, defaultAPI(), nil)

	rec, _ := do(t, s, http.MethodPost, "/api/similar-decks", `{"userDeck": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/api/similar-decks", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetaRoutes(t *testing.T) {
	s := newTestServer(t, defaultAPI(), nil)

	rec, out := do(t, s, http.MethodGet, "/api/meta/popular-cards?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cards []domain.PopularCard
	require.NoError(t, json.Unmarshal(out["popularCards"], &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, 2, cards[0].Count)

	rec, out = do(t, s, http.MethodGet, "/api/meta/popular-decks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var decks []domain.PopularDeck
	require.NoError(t, json.Unmarshal(out["popularDecks"], &decks))
	assert.Len(t, decks, 2)

	rec, out = do(t, s, http.MethodGet, "/api/meta/archetype-distribution", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var shares []domain.ArchetypeShare
	require.NoError(t, json.Unmarshal(out["archetypeDistribution"], &shares))
	total := 0.0
	for _, sh := range shares {
		total += sh.Percentage
	}
	assert.InDelta(t, 100.0, total, 1e-9)

	rec, _ = do(t, s, http.MethodGet, "/api/meta/popular-cards?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetaRoutesEmptyCorpus(t *testing.T) {
	s := newTestServer(t, &fakeAPI{players: map[string]*port.Player{}}, nil)

	for _, path := range []string{"/api/meta/popular-cards", "/api/meta/popular-decks", "/api/meta/archetype-distribution"} {
		rec, out := do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, string(out["error"]), "no meta decks", path)
	}
}

func TestAnalyzeRoute(t *testing.T) {
	s := newTestServer(t, defaultAPI(), nil)

	body := `{"deck": [{"id":"1"},{"id":"2"},{"id":"3"},{"id":"4"},{"id":"5"},{"id":"6"},{"id":"7"},{"id":"8"}]}`
	rec, out := do(t, s, http.MethodPost, "/api/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary string
	require.NoError(t, json.Unmarshal(out["analysis"], &summary))
	assert.Contains(t, summary, "This is a fast cycle deck.")

	rec, out = do(t, s, http.MethodPost, "/api/analyze", `{"deck": [{"id":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(out["error"]), "exactly 8 cards")
}

func TestGenerateDeckRoute(t *testing.T) {
	llm := &fakeLLM{reply: `{"generatedDeck": [{"id":"1"},{"id":"2"},{"id":"3"},{"id":"4"},{"id":"5"},{"id":"6"},{"id":"7"},{"id":"8"}], "explanation": "cycle"}`}
	s := newTestServer(t, defaultAPI(), llm)

	rec, out := do(t, s, http.MethodPost, "/api/generate-deck", `{"archetype": "Cycle"}`)
	require.Equal(t, http.StatusOK, rec.Code, string(out["error"]))

	var generated domain.GeneratedDeck
	require.NoError(t, json.Unmarshal(out["generatedData"], &generated))
	assert.Equal(t, fullDeck(), generated.Cards)
	assert.Equal(t, "cycle", generated.Explanation)
}

func TestPlayerRoute(t *testing.T) {
	api := defaultAPI()
	api.players["#EMPTY"] = &port.Player{Tag: "#EMPTY"}
	s := newTestServer(t, api, nil)

	rec, out := do(t, s, http.MethodGet, "/api/player/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var decks [][]domain.Card
	require.NoError(t, json.Unmarshal(out["decks"], &decks))
	require.Len(t, decks, 1)
	assert.Len(t, decks[0], 8)

	rec, _ = do(t, s, http.MethodGet, "/api/player/empty", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/player/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRandomDeckAndSwapRoutes(t *testing.T) {
	s := newTestServer(t, defaultAPI(), nil)

	rec, out := do(t, s, http.MethodGet, "/api/random-deck", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var deck []domain.Card
	require.NoError(t, json.Unmarshal(out["deck"], &deck))
	assert.Len(t, deck, 8)

	body := `{"deck": [{"id":"1","name":"Hog Rider"},{"id":"7","name":"Cannon"}], "out": {"id":"7","name":"Cannon"}, "in": {"id":"9","name":"Knight"}}`
	rec, out = do(t, s, http.MethodPost, "/api/swap", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(out["deck"], &deck))
	assert.Equal(t, "Knight", deck[1].Name)

	rec, _ = do(t, s, http.MethodPost, "/api/swap", `{"deck": [{"id":"1"}], "out": {"id":"7"}, "in": {"id":"9"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, defaultAPI(), nil)
	rec, out := do(t, s, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, string(out["error"]), "Not Found")
}
