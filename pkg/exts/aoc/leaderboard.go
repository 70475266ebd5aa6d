package aoc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StarRecord is the completion record of a single star in the AoC API
// response.
type StarRecord struct {
	GetStarTS int64 `json:"get_star_ts"`
}

// RawMember mirrors one member entry of an AoC private leaderboard.
type RawMember struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stars int    `json:"stars"`

	// Day number -> star number ("1" or "2") -> completion record.
	CompletionDayLevel map[string]map[string]StarRecord `json:"completion_day_level"`
}

// DisplayName returns the member's name, or an anonymous placeholder
// when they opted out of showing it.
func (m RawMember) DisplayName() string {
	if m.Name == "" {
		return fmt.Sprintf("Anonymous #%d", m.ID)
	}
	return m.Name
}

type rawLeaderboard struct {
	Members map[string]RawMember `json:"members"`
}

// Entry is one participant's row on the combined leaderboard.
type Entry struct {
	ID    int64
	Name  string
	Score int
	Star1 int
	Star2 int
}

// DayStats summarizes star completions for one day of the event.
type DayStats struct {
	StarOne int `json:"star_one"`
	StarTwo int `json:"star_two"`
}

// StarCompletion records when a participant completed a specific star.
// Used for the per day and star view.
type StarCompletion struct {
	CompletionTime int64  `json:"completion_time"`
	MemberName     string `json:"member_name"`
}

// Parsed is the analyzed leaderboard in the shapes the commands need:
// ranked participants, per day summary stats, and per day and star
// completion lists.
type Parsed struct {
	Entries       []Entry
	DailyStats    map[string]DayStats
	PerDayAndStar map[string][]StarCompletion
}

type starResult struct {
	memberID       int64
	completionTime int64
}

// ParseRawLeaderboard computes rank based scores from the raw AoC data.
// The API structures the data by member, so it has to be transposed to
// a per star view first: for each star, participants are ranked by
// completion time and awarded the participant count minus their rank.
// Days in ignoredDays are excluded from the scoring.
func ParseRawLeaderboard(members map[string]RawMember, ignoredDays []int) Parsed {
	ignored := make(map[string]bool, len(ignoredDays))
	for _, day := range ignoredDays {
		ignored[strconv.Itoa(day)] = true
	}

	type dayStar struct{ day, star string }
	starResults := make(map[dayStar][]starResult)
	perDayAndStar := make(map[string][]StarCompletion)
	entries := make(map[int64]*Entry, len(members))

	for _, member := range members {
		entry := &Entry{ID: member.ID, Name: member.DisplayName()}
		entries[member.ID] = entry

		for day, stars := range member.CompletionDayLevel {
			for star, record := range stars {
				if star == "1" {
					entry.Star1++
				} else {
					entry.Star2++
				}
				key := dayStar{day, star}
				starResults[key] = append(starResults[key], starResult{
					memberID:       member.ID,
					completionTime: record.GetStarTS,
				})
				perDayAndStar[day+"-"+star] = append(perDayAndStar[day+"-"+star], StarCompletion{
					CompletionTime: record.GetStarTS,
					MemberName:     entry.Name,
				})
			}
		}
	}

	for key := range perDayAndStar {
		completions := perDayAndStar[key]
		sort.Slice(completions, func(i, j int) bool {
			return completions[i].CompletionTime < completions[j].CompletionTime
		})
	}

	maxScore := len(entries)
	for key, results := range starResults {
		if ignored[key.day] {
			continue
		}
		sort.Slice(results, func(i, j int) bool {
			return results[i].completionTime < results[j].completionTime
		})
		for rank, result := range results {
			entries[result.memberID].Score += maxScore - rank
		}
	}

	sorted := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		sorted = append(sorted, *entry)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Star1+sorted[i].Star2 > sorted[j].Star1+sorted[j].Star2
	})

	dailyStats := make(map[string]DayStats, 25)
	for day := 1; day <= 25; day++ {
		key := strconv.Itoa(day)
		dailyStats[key] = DayStats{
			StarOne: len(starResults[dayStar{key, "1"}]),
			StarTwo: len(starResults[dayStar{key, "2"}]),
		}
	}

	return Parsed{Entries: sorted, DailyStats: dailyStats, PerDayAndStar: perDayAndStar}
}

const tableTemplate = "%4v | %-25.25s | %5v | %s"

func tableHeader() string {
	header := fmt.Sprintf(tableTemplate, "", "Name", "Score", "⭐, ⭐⭐")
	return header + "\n" + strings.Repeat("-", utf8.RuneCountInString(header)+2)
}

// headerLines is how many lines tableHeader produces.
const headerLines = 2

// FormatLeaderboard renders the ranked entries as a monospace table.
// When selfPlacement is given, that participant's row is lifted to the
// top with a "(You)" marker; an error is returned when no row matches.
func FormatLeaderboard(entries []Entry, selfPlacement string) (string, error) {
	lines := []string{tableHeader()}
	selfPlacementFound := false
	for i, entry := range entries {
		stars := fmt.Sprintf("(%d, %d)", entry.Star1, entry.Star2)
		if selfPlacement != "" && strings.EqualFold(entry.Name, selfPlacement) {
			line := fmt.Sprintf(tableTemplate, i+1, "(You) "+entry.Name, entry.Score, stars)
			lines = append(lines[:1], append([]string{line}, lines[1:]...)...)
			selfPlacementFound = true
			continue
		}
		lines = append(lines, fmt.Sprintf(tableTemplate, i+1, entry.Name, entry.Score, stars))
	}
	if selfPlacement != "" && !selfPlacementFound {
		return "", fmt.Errorf(
			"Sorry, your profile does not exist in this leaderboard.\n\n"+
				"To join our leaderboard, run the command `%s`."+
				" If you've joined recently, please wait up to 30 minutes for our leaderboard to refresh.",
			"aoc join",
		)
	}
	return strings.Join(lines, "\n"), nil
}

// TopLeaderboard truncates a formatted leaderboard to the configured
// number of members, keeping the table header.
func TopLeaderboard(full string, members int) string {
	lines := strings.Split(full, "\n")
	limit := headerLines + members
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return strings.Join(lines, "\n")
}
