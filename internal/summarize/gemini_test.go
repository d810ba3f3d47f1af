package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewGeminiClient("test-key", "gemini-2.5-flash")
	client.baseURL = server.URL
	return client
}

func successBody(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + mustJSONString(text) + `}]}}]}`
}

func mustJSONString(text string) string {
	encoded, err := json.Marshal(text)
	if err != nil {
		panic(err)
	}
	return string(encoded)
}

func TestGeminiSummarizeReturnsDigestUnmodified(t *testing.T) {
	var captured struct {
		path   string
		apiKey string
		body   geminiRequest
	}
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.apiKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(successBody("• point one\n• point two"))); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	})

	summary, err := client.Summarize(context.Background(), "grocery list: apples, rice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "• point one\n• point two" {
		t.Fatalf("unexpected summary: %q", summary)
	}
	if captured.path != "/gemini-2.5-flash:generateContent" {
		t.Fatalf("unexpected request path: %s", captured.path)
	}
	if captured.apiKey != "test-key" {
		t.Fatalf("expected api key header, got %q", captured.apiKey)
	}
	if len(captured.body.Contents) != 1 || len(captured.body.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected request shape: %+v", captured.body)
	}
	prompt := captured.body.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "grocery list: apples, rice") {
		t.Fatalf("prompt missing note text: %q", prompt)
	}
	if !strings.Contains(prompt, "Only use information from the note") {
		t.Fatalf("prompt missing instruction contract: %q", prompt)
	}
	if captured.body.GenerationConfig.MaxOutputTokens != geminiMaxTokens {
		t.Fatalf("unexpected max tokens: %d", captured.body.GenerationConfig.MaxOutputTokens)
	}
}

func TestGeminiSummarizeClassifiesRateLimiting(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.Summarize(context.Background(), "text")
	if !errors.Is(err, ErrUpstreamRateLimited) {
		t.Fatalf("expected ErrUpstreamRateLimited, got %v", err)
	}
}

func TestGeminiSummarizeClassifiesRejectedInput(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid content","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := client.Summarize(context.Background(), "text")
	if !errors.Is(err, ErrRejectedInput) {
		t.Fatalf("expected ErrRejectedInput, got %v", err)
	}
}

func TestGeminiSummarizeClassifiesServerFailures(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Summarize(context.Background(), "text")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGeminiSummarizeTreatsEmptyResponseAsUnavailable(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Summarize(context.Background(), "text")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewSummarizerWithoutKeyIsDisabled(t *testing.T) {
	summarizer := NewSummarizer("   ", "gemini-2.5-flash")
	if _, ok := summarizer.(*Disabled); !ok {
		t.Fatalf("expected disabled summarizer, got %T", summarizer)
	}

	summary, err := summarizer.Summarize(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(summary, "not configured") {
		t.Fatalf("expected static notice, got %q", summary)
	}
}

func TestNewSummarizerWithKeyUsesGemini(t *testing.T) {
	summarizer := NewSummarizer("real-key", "gemini-2.5-flash")
	if _, ok := summarizer.(*GeminiClient); !ok {
		t.Fatalf("expected gemini client, got %T", summarizer)
	}
}
