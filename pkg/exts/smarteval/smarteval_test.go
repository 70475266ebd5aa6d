package smarteval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUCapabilities(t *testing.T) {
	cases := []struct {
		donations    int64
		responseTime time.Duration
		intelligence int
	}{
		{0, 15 * time.Second, 0},
		{5, 15 * time.Second, 0},
		{10, 10 * time.Second, 1},
		{25, 8 * time.Second, 2},
		{50, 4 * time.Second, 5},
		{9000, 4 * time.Second, 5},
	}

	for _, tc := range cases {
		responseTime, intelligence := GPUCapabilities(tc.donations)
		assert.Equal(t, tc.responseTime, responseTime, "donations=%d", tc.donations)
		assert.Equal(t, tc.intelligence, intelligence, "donations=%d", tc.donations)
	}
}

func TestImproveGPUName(t *testing.T) {
	assert.Equal(t, "NQUACKIA PyForce PyTX 4090", ImproveGPUName("NVIDIA GeForce RTX 4090"))
	assert.Equal(t, "AMD Quackeon PyX 7900", ImproveGPUName("AMD Radeon RX 7900"))
	assert.Equal(t, "Intel Pyris Xe", ImproveGPUName("Intel Iris Xe"))
	// Markdown is stripped.
	assert.Equal(t, "fancy gpu", ImproveGPUName("*fancy*_gpu"))
}

func TestExtractCodeFencedBlock(t *testing.T) {
	code, ok := ExtractCode("```py\nprint('hi')\n```")
	require.True(t, ok)
	assert.Equal(t, "print('hi')", code)
}

func TestExtractCodeFencedBlockNoLang(t *testing.T) {
	code, ok := ExtractCode("```\nx = 1\n```")
	require.True(t, ok)
	assert.Equal(t, "x = 1", code)
}

func TestExtractCodeInline(t *testing.T) {
	code, ok := ExtractCode("`x = 1`")
	require.True(t, ok)
	assert.Equal(t, "x = 1", code)
}

func TestExtractCodeRejectsPlainText(t *testing.T) {
	_, ok := ExtractCode("just some words")
	assert.False(t, ok)
}

func TestMatchResponsesPrintCapture(t *testing.T) {
	responses := MatchResponses(`print("hello there")`)

	require.NotEmpty(t, responses)
	assert.Contains(t, responses[0], "hello there")
}

func TestMatchResponsesSemicolon(t *testing.T) {
	responses := MatchResponses("x = 1;")

	assert.Contains(t, responses, "Semicolons do not belong in Python code")
}

func TestMatchResponsesNoMatch(t *testing.T) {
	responses := MatchResponses("x = 1")

	assert.Empty(t, responses)
}

func TestMatchResponsesEvalCapture(t *testing.T) {
	responses := MatchResponses(`eval("2 + 2")`)

	found := false
	for _, r := range responses {
		if r == "I spy with my little eye... something sketchy like `eval`." {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDefaultResponsesIncludeWeekday(t *testing.T) {
	now := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)

	responses := defaultResponses(now)

	assert.Contains(t, responses, "Ask again on a Sunday.")
}
