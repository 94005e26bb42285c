// Package summarize turns a material's text into concise study notes via a
// hosted model.
package summarize

import (
	"context"
	"errors"
	"fmt"
)

// MaxInputChars is the hard input budget. Content beyond it is cut off
// mid-sentence rather than summarized in chunks.
const MaxInputChars = 8000

const maxSummaryWords = 150

// ErrGenerate wraps every generation failure (missing credential, transport
// error, empty response) so callers can map the whole class to a bad-gateway
// response.
var ErrGenerate = errors.New("summary generation failed")

// Result is a generated summary plus the model that produced it.
type Result struct {
	Text         string
	Model        string
	OutputTokens int
}

// Generator produces a summary for material content. One synchronous call
// per invocation: no retry, no caching.
type Generator interface {
	Summarize(ctx context.Context, content string) (*Result, error)
}

func buildPrompt(content string) string {
	return fmt.Sprintf(
		"Summarize the following into concise study notes (max %d words).\nText:\n%s",
		maxSummaryWords, truncateInput(content),
	)
}

// truncateInput caps the content at MaxInputChars characters, never splitting
// a multibyte rune.
func truncateInput(content string) string {
	if len(content) <= MaxInputChars {
		return content
	}
	runes := []rune(content)
	if len(runes) <= MaxInputChars {
		return content
	}
	return string(runes[:MaxInputChars])
}
