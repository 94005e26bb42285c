package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmptyInput(t *testing.T) {
	e := NewPDFExtractor()

	_, err := e.Extract(nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoText)

	_, err = e.Extract([]byte{})
	require.Error(t, err)
}

func TestExtractGarbageBytes(t *testing.T) {
	e := NewPDFExtractor()

	_, err := e.Extract([]byte("this is not a pdf at all"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoText)
}

func TestExtractTruncatedHeader(t *testing.T) {
	e := NewPDFExtractor()

	// Valid magic bytes but nothing behind them.
	_, err := e.Extract([]byte("%PDF-1.7\n"))
	require.Error(t, err)
}
