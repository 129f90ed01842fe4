package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/narainsingaram/clash-royale-ai/config"
	"github.com/narainsingaram/clash-royale-ai/internal/port"
)

// Client talks to any OpenAI-compatible chat completion endpoint. The default
// configuration points it at OpenRouter.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *slog.Logger
}

var _ port.LLM = (*Client)(nil)

// NewClient builds a client from explicit settings.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
		logger:    slog.Default().With("component", "llm"),
	}, nil
}

// NewClientFromConfig reads the API key from the configured environment variable.
func NewClientFromConfig(cfg config.LLMConfig) (*Client, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", cfg.APIKeyEnv)
	}
	return NewClient(apiKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxTokens)
}

func (c *Client) Complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from llm")
	}

	c.logger.Debug("completion finished",
		"model", c.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds())

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) ModelName() string {
	return c.model
}
