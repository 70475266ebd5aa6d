package misc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupZenLineByIndex(t *testing.T) {
	line, index, err := LookupZenLine("0")

	require.NoError(t, err)
	assert.Equal(t, 0, index)
	assert.Equal(t, "Beautiful is better than ugly.", line)
}

func TestLookupZenLineByNegativeIndex(t *testing.T) {
	lines := strings.Split(ZenOfPython, "\n")

	line, index, err := LookupZenLine("-1")

	require.NoError(t, err)
	assert.Equal(t, len(lines)-1, index)
	assert.Equal(t, lines[len(lines)-1], line)
}

func TestLookupZenLineIndexOutOfRange(t *testing.T) {
	_, _, err := LookupZenLine("9000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index between")
}

func TestLookupZenLineExactWord(t *testing.T) {
	line, _, err := LookupZenLine("ambiguity")

	require.NoError(t, err)
	assert.Equal(t, "In the face of ambiguity, remove the freedom to guess.", line)
}

func TestLookupZenLineExactWordIsCaseInsensitive(t *testing.T) {
	line, _, err := LookupZenLine("BEAUTIFUL")

	require.NoError(t, err)
	assert.Equal(t, "Beautiful is better than ugly.", line)
}

func TestLookupZenLineFuzzy(t *testing.T) {
	line, _, err := LookupZenLine("better than complicated")

	require.NoError(t, err)
	assert.Equal(t, "Complex is better than complicated.", line)
}

func TestMatchRatio(t *testing.T) {
	assert.Equal(t, 1.0, matchRatio("abc", "abc"))
	assert.Equal(t, 0.0, matchRatio("", "abc"))
	assert.InDelta(t, 0.5, matchRatio("ab", "aXbX"), 0.2)
}
