// Package insights asks a hosted language model for an analysis of the
// user's finances. It only reads a snapshot; it never touches the ledger.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/config"
	flog "github.com/theirongolddev/fintrack/internal/log"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 2048
	DefaultTimeout   = 60 * time.Second

	apiVersion  = "2023-06-01"
	maxBodySize = 1 << 20 // 1 MB
)

var (
	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("insights: no API key configured")
	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("insights: unauthorized (API key invalid)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("insights: rate limited")
	// ErrMalformedResponse indicates the reply did not carry the expected sections.
	ErrMalformedResponse = errors.New("insights: malformed response")
)

// Config configures a Client.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// FromConfig maps the [insights] section, with environment key overrides,
// onto a client Config.
func FromConfig(cfg config.Config) Config {
	return Config{
		APIKey:    config.GetAPIKey(cfg),
		BaseURL:   cfg.Insights.BaseURL,
		Model:     cfg.Insights.Model,
		MaxTokens: cfg.Insights.MaxTokens,
		Timeout:   cfg.InsightsTimeout(),
	}
}

// Client calls the Anthropic Messages API.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// NewClient returns a client, or ErrNoAPIKey when cfg has no key.
func NewClient(cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  flog.For(flog.ComponentInsights),
	}, nil
}

// Generate sends the snapshot and parses the structured report.
func (c *Client) Generate(ctx context.Context, snap Snapshot, now time.Time) (*Report, error) {
	prompt, err := buildPrompt(snap, now)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    systemPrompt,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("insights: encoding request: %w", err)
	}

	start := time.Now()
	raw, err := c.post(ctx, "/v1/messages", body)
	if err != nil {
		c.log.Warn("request failed", flog.Err(err))
		return nil, err
	}

	var resp messagesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	report, err := ParseReport(text.String())
	if err != nil {
		c.log.Warn("unparseable report", "stop_reason", resp.StopReason, flog.Err(err))
		return nil, err
	}
	report.GeneratedAt = now
	report.Model = resp.Model
	c.log.Info("report generated", "model", resp.Model, "elapsed", time.Since(start))
	return report, nil
}

// post performs an authenticated POST and returns the response body.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("insights: creating request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/fintrack/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insights: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("insights: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Error.Message != "" {
			return nil, fmt.Errorf("insights: status %d: %s", resp.StatusCode, ae.Error.Message)
		}
		return nil, fmt.Errorf("insights: unexpected status %d", resp.StatusCode)
	}
	return data, nil
}

// ParseReport extracts the JSON object from the model's reply and checks
// that every section is present.
func ParseReport(text string) (*Report, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrMalformedResponse)
	}
	obj := []byte(text[start : end+1])

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(obj, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, key := range []string{"financialHealth", "spendingForecast", "goalEstimates", "recommendations"} {
		if v, ok := sections[key]; !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, key)
		}
	}

	var r Report
	if err := json.Unmarshal(obj, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &r, nil
}
