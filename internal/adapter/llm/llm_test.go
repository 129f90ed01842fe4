package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narainsingaram/clash-royale-ai/config"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
)

type chatRequest struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeCompletionServer(t *testing.T, reply string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": reply}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientComplete(t *testing.T) {
	var seen chatRequest
	srv := fakeCompletionServer(t, `{"identifiedArchetype":"Hog Cycle"}`, &seen)

	c, err := NewClient("test-key", srv.URL, "test-model", time.Second, 256)
	require.NoError(t, err)
	assert.Equal(t, "test-model", c.ModelName())

	reply, err := c.Complete(context.Background(), "hello", true)
	require.NoError(t, err)
	assert.Equal(t, `{"identifiedArchetype":"Hog Cycle"}`, reply)

	assert.Equal(t, "test-model", seen.Model)
	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, "json_object", seen.ResponseFormat.Type)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Equal(t, "hello", seen.Messages[0].Content)
}

func TestClientCompletePlainText(t *testing.T) {
	var seen chatRequest
	srv := fakeCompletionServer(t, "Siege", &seen)

	c, err := NewClient("test-key", srv.URL+"/", "test-model", time.Second, 0)
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), "classify", false)
	require.NoError(t, err)
	assert.Equal(t, "Siege", reply)
	assert.Nil(t, seen.ResponseFormat)
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := NewClient("test-key", srv.URL, "test-model", time.Second, 0)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "hello", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm completion failed")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "http://x", "m", 0, 0)
	assert.Error(t, err)
	_, err = NewClient("k", "http://x", "", 0, 0)
	assert.Error(t, err)
}

func TestNewClientFromConfigReadsEnv(t *testing.T) {
	cfg := config.DefaultConfig().LLM
	cfg.APIKeyEnv = "ROYALE_TEST_LLM_KEY"

	t.Setenv("ROYALE_TEST_LLM_KEY", "")
	_, err := NewClientFromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROYALE_TEST_LLM_KEY")

	t.Setenv("ROYALE_TEST_LLM_KEY", "secret")
	c, err := NewClientFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Model, c.ModelName())
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain", `{"explanation":"ok","generatedDeck":[{"id":"1","name":"Knight"}]}`},
		{"fenced", "```json\n{\"explanation\":\"ok\",\"generatedDeck\":[{\"id\":\"1\",\"name\":\"Knight\"}]}\n```"},
		{"chatter", "Here you go:\n{\"explanation\":\"ok\",\"generatedDeck\":[{\"id\":\"1\",\"name\":\"Knight\"}]}\nEnjoy!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out domain.GeneratedDeck
			require.NoError(t, DecodeJSON(tt.reply, &out))
			assert.Equal(t, "ok", out.Explanation)
			require.Len(t, out.Cards, 1)
			assert.Equal(t, "Knight", out.Cards[0].Name)
		})
	}

	var out domain.GeneratedDeck
	err := DecodeJSON("no json here", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse llm reply")
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "Hog Cycle", CleanLabel(`"Hog Cycle"`))
	assert.Equal(t, "Siege", CleanLabel("  'Siege'.\nBecause X-Bow"))
	assert.Equal(t, "Bridge Spam", CleanLabel("`Bridge Spam`"))
	assert.Equal(t, "", CleanLabel("   "))
}

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) Complete(_ context.Context, prompt string, _ bool) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubLLM) ModelName() string { return "stub" }

func TestArchetypeClassifier(t *testing.T) {
	stub := &stubLLM{reply: "\"Lavaloon\"\n"}
	c := NewArchetypeClassifier(stub, []string{"Lavaloon", "Siege"})

	deck := []domain.Card{{ID: "1", Name: "Lava Hound", ElixirCost: 7}}
	label, err := c.Classify(context.Background(), deck)
	require.NoError(t, err)
	assert.Equal(t, "Lavaloon", label)
	assert.Contains(t, stub.prompt, "Lavaloon, Siege")
	assert.Contains(t, stub.prompt, "Lava Hound (Elixir: 7")

	stub.reply = "  "
	_, err = c.Classify(context.Background(), deck)
	assert.Error(t, err)
}

func TestPrompts(t *testing.T) {
	deck := []domain.Card{
		{ID: "26000021", Name: "Hog Rider", ElixirCost: 4, Rarity: "Rare"},
		{ID: "26000014", Name: "Musketeer", ElixirCost: 4, Rarity: "Rare"},
	}
	ranked := []domain.SimilarityResult{{
		Deck:  domain.CorpusDeck{ID: "d1", PlayerTag: "#ABC", Trophies: 9000, Cards: deck},
		Score: 0.875,
	}}

	p := SimilarDecksPrompt(deck, ranked)
	assert.Contains(t, p, "Player #ABC (Trophies: 9000)")
	assert.Contains(t, p, "Similarity Score: 0.88")
	assert.Contains(t, p, "Hog Rider (ID: 26000021")
	assert.Contains(t, p, "identifiedArchetype")

	a := AnalysisPrompt(deck, 4.0)
	assert.Contains(t, a, "Average elixir: 4.0")
	assert.Contains(t, a, "suggestedImprovements")

	g := GeneratePrompt(domain.DeckPreferences{Archetype: "Cycle"}, deck)
	assert.Contains(t, g, "Archetype: Cycle")
	assert.Contains(t, g, "Elixir Cost Preference: Balanced")
	assert.Contains(t, g, "Win Condition Preference: Any")
	assert.Contains(t, g, "- 26000021, Hog Rider, 4, Rare")
	assert.True(t, strings.Contains(g, "exactly 8 distinct"))
}
