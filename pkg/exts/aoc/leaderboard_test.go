package aoc

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMembers() map[string]RawMember {
	return map[string]RawMember{
		"1": {
			ID:   1,
			Name: "lemon",
			CompletionDayLevel: map[string]map[string]StarRecord{
				"1": {
					"1": {GetStarTS: 100},
					"2": {GetStarTS: 200},
				},
				"2": {
					"1": {GetStarTS: 1000},
				},
			},
		},
		"2": {
			ID:   2,
			Name: "shtlrs",
			CompletionDayLevel: map[string]map[string]StarRecord{
				"1": {
					"1": {GetStarTS: 150},
				},
			},
		},
		"3": {
			ID:                 3,
			Name:               "",
			CompletionDayLevel: map[string]map[string]StarRecord{},
		},
	}
}

func TestParseRawLeaderboardScoring(t *testing.T) {
	parsed := ParseRawLeaderboard(testMembers(), nil)

	require.Len(t, parsed.Entries, 3)
	// lemon: first on 1-1 (3 points), only solver of 1-2 and 2-1
	// (3 points each). shtlrs: second on 1-1 (2 points).
	assert.Equal(t, "lemon", parsed.Entries[0].Name)
	assert.Equal(t, 9, parsed.Entries[0].Score)
	assert.Equal(t, 2, parsed.Entries[0].Star1)
	assert.Equal(t, 1, parsed.Entries[0].Star2)
	assert.Equal(t, "shtlrs", parsed.Entries[1].Name)
	assert.Equal(t, 2, parsed.Entries[1].Score)
	assert.Equal(t, "Anonymous #3", parsed.Entries[2].Name)
	assert.Equal(t, 0, parsed.Entries[2].Score)
}

func TestParseRawLeaderboardIgnoredDays(t *testing.T) {
	parsed := ParseRawLeaderboard(testMembers(), []int{2})

	// Day 2 no longer awards points, but the star still counts.
	assert.Equal(t, "lemon", parsed.Entries[0].Name)
	assert.Equal(t, 6, parsed.Entries[0].Score)
	assert.Equal(t, 2, parsed.Entries[0].Star1)
}

func TestParseRawLeaderboardDailyStats(t *testing.T) {
	parsed := ParseRawLeaderboard(testMembers(), nil)

	assert.Equal(t, DayStats{StarOne: 2, StarTwo: 1}, parsed.DailyStats["1"])
	assert.Equal(t, DayStats{StarOne: 1, StarTwo: 0}, parsed.DailyStats["2"])
	assert.Equal(t, DayStats{}, parsed.DailyStats["25"])
}

func TestParseRawLeaderboardPerDayAndStarOrdering(t *testing.T) {
	parsed := ParseRawLeaderboard(testMembers(), nil)

	completions := parsed.PerDayAndStar["1-1"]
	require.Len(t, completions, 2)
	assert.Equal(t, "lemon", completions[0].MemberName)
	assert.Equal(t, "shtlrs", completions[1].MemberName)
}

func TestFormatLeaderboard(t *testing.T) {
	parsed := ParseRawLeaderboard(testMembers(), nil)

	table, err := FormatLeaderboard(parsed.Entries, "")

	require.NoError(t, err)
	lines := strings.Split(table, "\n")
	require.Len(t, lines, headerLines+3)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[2], "lemon")
	assert.Contains(t, lines[2], "(2, 1)")
}

func TestFormatLeaderboardSelfPlacement(t *testing.T) {
	parsed := ParseRawLeaderboard(testMembers(), nil)

	table, err := FormatLeaderboard(parsed.Entries, "SHTLRS")

	require.NoError(t, err)
	lines := strings.Split(table, "\n")
	assert.Contains(t, lines[2], "(You) shtlrs")
}

func TestFormatLeaderboardSelfPlacementMissing(t *testing.T) {
	parsed := ParseRawLeaderboard(testMembers(), nil)

	_, err := FormatLeaderboard(parsed.Entries, "nobody")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist in this leaderboard")
}

func TestTopLeaderboard(t *testing.T) {
	parsed := ParseRawLeaderboard(testMembers(), nil)
	table, err := FormatLeaderboard(parsed.Entries, "")
	require.NoError(t, err)

	top := TopLeaderboard(table, 1)

	assert.Len(t, strings.Split(top, "\n"), headerLines+1)
	assert.Equal(t, table, TopLeaderboard(table, 100))
}

func TestIsInAdvent(t *testing.T) {
	assert.True(t, isInAdvent(time.Date(2023, time.December, 5, 12, 0, 0, 0, est)))
	assert.False(t, isInAdvent(time.Date(2023, time.December, 25, 12, 0, 0, 0, est)))
	assert.False(t, isInAdvent(time.Date(2023, time.July, 5, 12, 0, 0, 0, est)))
}

func TestNextESTMidnight(t *testing.T) {
	now := time.Date(2023, time.December, 5, 22, 30, 0, 0, est)

	midnight, left := nextESTMidnight(now)

	assert.Equal(t, time.Date(2023, time.December, 6, 0, 0, 0, 0, est), midnight)
	assert.Equal(t, 90*time.Minute, left)
}
