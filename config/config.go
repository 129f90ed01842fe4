package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the deck assistant.
type Config struct {
	API     APIConfig     `yaml:"api"`
	LLM     LLMConfig     `yaml:"llm"`
	Collect CollectConfig `yaml:"collect"`
	Similar SimilarConfig `yaml:"similar"`
	Meta    MetaConfig    `yaml:"meta"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the game API client.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	TokenEnv     string        `yaml:"token_env"` // Environment variable holding the bearer token
	RequestDelay time.Duration `yaml:"request_delay"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
}

// LLMConfig configures the OpenAI-compatible completion provider.
type LLMConfig struct {
	Enabled   bool          `yaml:"enabled"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// CollectConfig controls meta deck collection.
type CollectConfig struct {
	Location    string        `yaml:"location"`
	TopPlayers  int           `yaml:"top_players"`
	Concurrency int           `yaml:"concurrency"`
	TTL         time.Duration `yaml:"ttl"` // Stored corpus is reused while younger than this
}

type SimilarConfig struct {
	TopN int `yaml:"top_n"`
}

type MetaConfig struct {
	PopularCards int           `yaml:"popular_cards"`
	PopularDecks int           `yaml:"popular_decks"`
	ArchetypeTTL time.Duration `yaml:"archetype_ttl"`
	Archetypes   []string      `yaml:"archetypes"`
}

// CorpusConfig holds glob patterns for deck file imports.
type CorpusConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "https://api.clashroyale.com/v1",
			TokenEnv:     "CLASH_ROYALE_API_TOKEN",
			RequestDelay: 100 * time.Millisecond,
			Timeout:      30 * time.Second,
			MaxRetries:   3,
		},
		LLM: LLMConfig{
			Enabled:   true,
			BaseURL:   "https://openrouter.ai/api/v1",
			Model:     "cognitivecomputations/dolphin-mistral-24b-venice-edition:free",
			APIKeyEnv: "OPENROUTER_API_KEY",
			Timeout:   120 * time.Second,
			MaxTokens: 2048,
		},
		Collect: CollectConfig{
			Location:    "global",
			TopPlayers:  50,
			Concurrency: 4,
			TTL:         6 * time.Hour,
		},
		Similar: SimilarConfig{
			TopN: 3,
		},
		Meta: MetaConfig{
			PopularCards: 10,
			PopularDecks: 5,
			ArchetypeTTL: 12 * time.Hour,
			Archetypes: []string{
				"Beatdown", "Siege", "Cycle", "Control", "Bridge Spam", "Spell Bait",
				"Hog Cycle", "LavaLoon", "Golem Beatdown", "X-Bow Cycle", "Log Bait", "Miner Poison",
			},
		},
		Corpus: CorpusConfig{
			Includes: []string{"**/*.yaml", "**/*.yml", "**/*.json"},
			Excludes: []string{"**/.royale/**", "**/.git/**", "**/node_modules/**"},
		},
		Server: ServerConfig{
			Addr: ":3000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for royale.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "royale.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".royale", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDBPath returns the path to the deck database.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, ".royale", "decks.db")
}

// EnsureDataDir ensures the .royale directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".royale"), 0755)
}
