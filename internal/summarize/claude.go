package summarize

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

var claudeModels = map[string]string{
	"haiku":  "claude-haiku-4-5-20251001",
	"sonnet": "claude-sonnet-4-5-20250929",
}

const (
	maxTokens   = 1024
	temperature = 0.2
)

// ClaudeGenerator summarizes content with the Anthropic API. The model is an
// alias ("haiku", "sonnet"); unknown aliases fall back to haiku.
type ClaudeGenerator struct {
	model string
}

func NewClaudeGenerator(model string) *ClaudeGenerator {
	return &ClaudeGenerator{model: model}
}

func (g *ClaudeGenerator) Summarize(ctx context.Context, content string) (*Result, error) {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrGenerate)
	}

	modelID := claudeModels[g.model]
	if modelID == "" {
		modelID = claudeModels["haiku"]
	}

	client := anthropic.NewClient()
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelID),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(content))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	text := strings.TrimSpace(extractText(message))
	if text == "" {
		return nil, fmt.Errorf("%w: empty response from model", ErrGenerate)
	}

	return &Result{
		Text:         text,
		Model:        modelID,
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func extractText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "")
}
