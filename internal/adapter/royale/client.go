package royale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/narainsingaram/clash-royale-ai/config"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

const (
	defaultBaseURL    = "https://api.clashroyale.com/v1"
	defaultDelay      = 100 * time.Millisecond
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	initialBackoff    = 1 * time.Second
	maxBackoff        = 16 * time.Second
)

// ErrNotFound is returned for 404 responses (unknown player tag, etc).
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response other than 404.
type APIError struct {
	Status  int
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("api error %d (%s)", e.Status, e.Reason)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL        string
	Token          string
	RequestDelay   time.Duration
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	HTTPClient     *http.Client
}

// Client is a rate-limited client for the public game API.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	maxRetries  int
	backoff     time.Duration
	userAgent   string
}

var _ port.RoyaleAPI = (*Client)(nil)

func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("api token is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = defaultDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = initialBackoff
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		token:       opts.Token,
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(rate.Every(opts.RequestDelay), 1),
		maxRetries:  opts.MaxRetries,
		backoff:     opts.InitialBackoff,
		userAgent:   "clash-royale-ai/1.0",
	}, nil
}

// NewClientFromConfig reads the token from the configured environment variable.
func NewClientFromConfig(cfg config.APIConfig) (*Client, error) {
	token := os.Getenv(cfg.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("API token not found in environment variable: %s", cfg.TokenEnv)
	}
	return NewClient(Options{
		BaseURL:      cfg.BaseURL,
		Token:        token,
		RequestDelay: cfg.RequestDelay,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
	})
}

type apiCard struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ElixirCost int    `json:"elixirCost"`
	MaxLevel   int    `json:"maxLevel"`
	Rarity     string `json:"rarity"`
	IconUrls   struct {
		Medium string `json:"medium"`
	} `json:"iconUrls"`
}

func (c apiCard) toDomain() domain.Card {
	return domain.Card{
		ID:         strconv.Itoa(c.ID),
		Name:       c.Name,
		ElixirCost: c.ElixirCost,
		MaxLevel:   c.MaxLevel,
		Rarity:     c.Rarity,
		IconURL:    c.IconUrls.Medium,
	}
}

func toDomainCards(in []apiCard) []domain.Card {
	out := make([]domain.Card, len(in))
	for i, c := range in {
		out[i] = c.toDomain()
	}
	return out
}

// Cards returns the full card catalog.
func (c *Client) Cards(ctx context.Context) ([]domain.Card, error) {
	var resp struct {
		Items []apiCard `json:"items"`
	}
	if err := c.doRequest(ctx, c.baseURL+"/cards", &resp); err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	return toDomainCards(resp.Items), nil
}

// TopPlayers returns up to limit ranked players for a location ("global" or
// a numeric location id).
func (c *Client) TopPlayers(ctx context.Context, location string, limit int) ([]port.RankedPlayer, error) {
	endpoint := fmt.Sprintf("%s/locations/%s/rankings/players", c.baseURL, url.PathEscape(location))
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var resp struct {
		Items []struct {
			Tag      string `json:"tag"`
			Name     string `json:"name"`
			Rank     int    `json:"rank"`
			Trophies int    `json:"trophies"`
		} `json:"items"`
	}
	if err := c.doRequest(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to get rankings for %s: %w", location, err)
	}

	players := make([]port.RankedPlayer, 0, len(resp.Items))
	for _, p := range resp.Items {
		players = append(players, port.RankedPlayer{
			Tag:      p.Tag,
			Name:     p.Name,
			Rank:     p.Rank,
			Trophies: p.Trophies,
		})
	}
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// Player fetches a profile. The tag may be given with or without '#'.
func (c *Client) Player(ctx context.Context, tag string) (*port.Player, error) {
	clean := NormalizeTag(tag)
	if clean == "" {
		return nil, &domain.InvalidInputError{Reason: "player tag is required"}
	}
	endpoint := fmt.Sprintf("%s/players/%%23%s", c.baseURL, url.PathEscape(clean))

	var resp struct {
		Tag         string    `json:"tag"`
		Name        string    `json:"name"`
		Trophies    int       `json:"trophies"`
		CurrentDeck []apiCard `json:"currentDeck"`
	}
	if err := c.doRequest(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to get player #%s: %w", clean, err)
	}

	return &port.Player{
		Tag:         resp.Tag,
		Name:        resp.Name,
		Trophies:    resp.Trophies,
		CurrentDeck: toDomainCards(resp.CurrentDeck),
	}, nil
}

// NormalizeTag strips a leading '#' and upper-cases the tag.
func NormalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// doRequest performs a GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = min(backoff*2, maxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retry, err := c.do(ctx, endpoint, result, &backoff)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do runs a single attempt and reports whether a failure is retryable.
func (c *Client) do(ctx context.Context, endpoint string, result interface{}, backoff *time.Duration) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, result); err != nil {
			return false, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, nil

	case resp.StatusCode == http.StatusNotFound:
		return false, ErrNotFound

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
			*backoff = time.Duration(secs) * time.Second
		}
		return true, decodeAPIError(resp.StatusCode, body)

	default:
		return false, decodeAPIError(resp.StatusCode, body)
	}
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Reason == "" {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		apiErr.Reason = http.StatusText(status)
		apiErr.Message = preview
	}
	return apiErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
