package summarize

import "context"

const notConfiguredMessage = "• AI summarization is not configured.\n• Ask the operator to set SEALNOTE_GEMINI_API_KEY."

var _ Summarizer = (*Disabled)(nil)

// Disabled answers every request with a static notice. It stands in for the
// Gemini client when no API key is configured so summarization never breaks
// the rest of the flow.
type Disabled struct{}

func (d *Disabled) Summarize(_ context.Context, _ string) (string, error) {
	return notConfiguredMessage, nil
}
