// Package summarize forwards verified note text to an external AI text service
// under a fixed prompt contract and normalizes its failure modes.
package summarize

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUpstreamRateLimited indicates the AI service refused the call for quota
	// reasons; retrying later may succeed.
	ErrUpstreamRateLimited = errors.New("summarize: upstream rate limited")
	// ErrRejectedInput indicates the AI service rejected the note text; retrying
	// the same call will not help.
	ErrRejectedInput = errors.New("summarize: input rejected by upstream")
	// ErrUnavailable indicates a generic upstream failure; retrying later may succeed.
	ErrUnavailable = errors.New("summarize: upstream unavailable")
)

// Summarizer condenses note text into a short bulleted digest.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// NewSummarizer selects the gateway implementation at construction time: a
// Gemini-backed client when an API key is configured, otherwise the disabled
// variant that answers with a static notice instead of failing the flow.
func NewSummarizer(apiKey, model string) Summarizer {
	if strings.TrimSpace(apiKey) == "" {
		return &Disabled{}
	}
	return NewGeminiClient(apiKey, model)
}

const promptHeader = `You are a helpful assistant that summarizes private notes.

STRICT RULES:
1. Only use information from the note provided below
2. Do NOT add any external information or assumptions
3. Keep the summary short — 3 to 5 bullet points maximum
4. Each bullet point should be one clear sentence
5. Start each bullet point with "•"
6. If the note is very short or simple, use fewer bullet points

NOTE CONTENT:
`

// buildPrompt constrains the model to the supplied note text only.
func buildPrompt(noteText string) string {
	var builder strings.Builder
	builder.WriteString(promptHeader)
	builder.WriteString(noteText)
	builder.WriteString("\n\nPlease summarize the above note now.")
	return builder.String()
}
