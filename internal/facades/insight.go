package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sbilibin2017/dream-vault/internal/logger"
	"golang.org/x/time/rate"
)

const (
	defaultInsightBaseURL = "https://api.anthropic.com"
	defaultInsightModel   = "claude-3-5-haiku-latest"
	insightMaxTokens      = 1024
	anthropicVersion      = "2023-06-01"

	insightSystemPrompt = "You are an insightful dream analyst who provides meaningful, personalized dream interpretations."
)

// ErrMissingAPIKey is returned by Generate when no API key is configured.
var ErrMissingAPIKey = errors.New("insight api key not configured")

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnthropicInsightFacade generates dream interpretations through the
// Anthropic Messages API. Calls are rate limited client side and never retried.
type AnthropicInsightFacade struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAnthropicInsightFacade creates the facade. A non-positive ratePerSecond
// disables the limiter.
func NewAnthropicInsightFacade(apiKey, baseURL, model string, timeout time.Duration, ratePerSecond float64) *AnthropicInsightFacade {
	if baseURL == "" {
		baseURL = defaultInsightBaseURL
	}
	if model == "" {
		model = defaultInsightModel
	}

	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	return &AnthropicInsightFacade{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Generate sends prompt to the model and returns the first text block.
func (f *AnthropicInsightFacade) Generate(ctx context.Context, prompt string) (string, error) {
	if f.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     f.model,
		MaxTokens: insightMaxTokens,
		System:    insightSystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", f.apiKey)
	req.Header.Set("Anthropic-Version", anthropicVersion)

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		logger.Log.Errorw("insight request failed", "model", f.model, "error", err)
		return "", fmt.Errorf("insight request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	logger.Log.Infow("insight response",
		"model", f.model,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		var apiErr anthropicError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("insight api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("insight api error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", errors.New("empty response from insight api")
}
