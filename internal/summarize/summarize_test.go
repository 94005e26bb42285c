package summarize

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateInput(t *testing.T) {
	short := "just a few words"
	assert.Equal(t, short, truncateInput(short))

	exact := strings.Repeat("x", MaxInputChars)
	assert.Equal(t, exact, truncateInput(exact))

	long := strings.Repeat("y", MaxInputChars+500)
	got := truncateInput(long)
	assert.Len(t, got, MaxInputChars)
	assert.Equal(t, long[:MaxInputChars], got)
}

func TestTruncateInputMultibyte(t *testing.T) {
	// Two-byte runes: a byte-index cut would land mid-rune.
	long := strings.Repeat("é", MaxInputChars+10)
	got := truncateInput(long)
	assert.Equal(t, MaxInputChars, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))

	// Multibyte content within the character budget passes through whole,
	// even though it exceeds the budget in bytes.
	fits := strings.Repeat("ま", MaxInputChars)
	assert.Equal(t, fits, truncateInput(fits))
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("the krebs cycle")
	assert.Contains(t, prompt, "concise study notes (max 150 words)")
	assert.Contains(t, prompt, "the krebs cycle")

	// Oversized content shows up truncated, not whole.
	long := strings.Repeat("z", MaxInputChars*2)
	prompt = buildPrompt(long)
	assert.Less(t, len(prompt), MaxInputChars+200)
}

func TestClaudeGeneratorMissingCredential(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	g := NewClaudeGenerator("haiku")
	_, err := g.Summarize(context.Background(), "some content")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerate)
}
