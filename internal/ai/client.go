package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	applog "backbar/internal/log"
	"backbar/internal/metrics"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultTemperature = 0.2
	defaultTimeout     = 90 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// ErrMalformedOutput reports a completion that was not a JSON object.
var ErrMalformedOutput = errors.New("ai: malformed model output")

// Config describes how the OpenAI client should be initialised.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
	Cache       Cache
	CacheTTL    time.Duration
}

// Client offers a thin wrapper around the OpenAI Chat Completions API.
type Client struct {
	http        *resty.Client
	model       string
	temperature float64
	cache       Cache
	cacheTTL    time.Duration
}

// NewClient builds a Client for recipe parsing and ingredient lookups.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai: api key must not be empty")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	temp := cfg.Temperature
	if temp <= 0 {
		temp = defaultTemperature
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http:        rc,
		model:       model,
		temperature: temp,
		cache:       cfg.Cache,
		cacheTTL:    ttl,
	}, nil
}

// Model returns the configured chat model.
func (c *Client) Model() string {
	return c.model
}

// Invoke sends prompt with a JSON schema the answer must follow and returns
// the decoded object. Conformance to the schema is not guaranteed; callers
// coerce the result. Responses are cached by prompt and schema when a cache
// is configured.
func (c *Client) Invoke(ctx context.Context, operation, prompt string, schema map[string]any) (map[string]any, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("ai: prompt must not be empty")
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("ai: encode schema: %w", err)
	}
	key := c.cacheKey(prompt, schemaJSON)

	if content, ok := c.cached(ctx, key); ok {
		metrics.ObserveLLM(operation, "cache_hit", 0)
		return decodeObject(content)
	}

	payload := map[string]any{
		"model":           c.model,
		"temperature":     c.temperature,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are a meticulous bar manager's assistant. Respond with a single JSON object matching this JSON schema, with no markdown or commentary:\n" + string(schemaJSON),
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
	}

	started := time.Now()
	content, err := c.performChatCompletion(ctx, payload)
	if err != nil {
		metrics.ObserveLLM(operation, "error", time.Since(started))
		return nil, err
	}
	metrics.ObserveLLM(operation, "ok", time.Since(started))

	result, err := decodeObject(content)
	if err != nil {
		return result, err
	}
	c.store(ctx, key, content)
	return result, nil
}

func (c *Client) cacheKey(prompt string, schema []byte) string {
	sum := sha256.New()
	sum.Write([]byte(c.model))
	sum.Write([]byte{0})
	sum.Write(schema)
	sum.Write([]byte{0})
	sum.Write([]byte(prompt))
	return "ai:completion:" + hex.EncodeToString(sum.Sum(nil))
}

func (c *Client) cached(ctx context.Context, key string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	value, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		applog.Warn(ctx, "llm cache read failed", "error", err)
		return "", false
	}
	return string(value), ok
}

func (c *Client) store(ctx context.Context, key, content string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, []byte(content), c.cacheTTL); err != nil {
		applog.Warn(ctx, "llm cache write failed", "error", err)
	}
}

// decodeObject parses a completion into a JSON object. Anything else yields
// an empty object and ErrMalformedOutput.
func decodeObject(content string) (map[string]any, error) {
	decoder := json.NewDecoder(strings.NewReader(content))
	decoder.UseNumber()
	var result map[string]any
	if err := decoder.Decode(&result); err != nil || result == nil {
		return map[string]any{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return result, nil
}

func (c *Client) performChatCompletion(ctx context.Context, payload map[string]any) (string, error) {
	var responseData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&responseData).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("ai: call openai: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ai: openai returned status %s", resp.Status())
	}

	if len(responseData.Choices) == 0 {
		return "", errors.New("ai: openai returned no choices")
	}

	return stripFences(responseData.Choices[0].Message.Content), nil
}

// stripFences removes markdown code fences models sometimes add.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.Trim(content, "`")
	content = strings.TrimSpace(content)
	if rest, ok := strings.CutPrefix(content, "json"); ok {
		content = rest
	}
	return strings.TrimSpace(content)
}
