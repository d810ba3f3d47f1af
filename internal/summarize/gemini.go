package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiRequestLimit = 30 * time.Second
	geminiMaxTokens    = 300
	geminiTemperature  = 0.3
)

var _ Summarizer = (*GeminiClient)(nil)

// GeminiClient calls the Gemini generateContent endpoint over plain HTTP.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiClient constructs a client bound to the given API key and model.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: geminiRequestLimit},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Summarize sends the fixed prompt with the note text and returns the model's
// digest unmodified. Upstream failures are classified into the package's
// sentinel errors so callers can map them without parsing messages.
func (c *GeminiClient) Summarize(ctx context.Context, text string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: buildPrompt(text)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: geminiMaxTokens,
			Temperature:     geminiTemperature,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("summarize: failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("summarize: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, respBody)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	summary := extractSummary(parsed)
	if summary == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return summary, nil
}

func classifyStatus(statusCode int, respBody []byte) error {
	message := upstreamMessage(respBody)
	switch {
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrUpstreamRateLimited, message)
	case statusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrRejectedInput, message)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, statusCode, message)
	}
}

func upstreamMessage(respBody []byte) string {
	var parsed geminiError
	if json.Unmarshal(respBody, &parsed) == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(respBody)
}

func extractSummary(parsed geminiResponse) string {
	if len(parsed.Candidates) == 0 {
		return ""
	}
	parts := parsed.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0].Text)
}
