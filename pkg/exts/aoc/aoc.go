// Package aoc runs the Advent of Code festivities: the combined private
// leaderboard, join codes, daily puzzle notifications and the
// completionist role.
package aoc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron/v2"

	"github.com/python-discord/sir-robin-go/pkg/bot"
	"github.com/python-discord/sir-robin-go/pkg/rediscache"
)

const embedThumbnail = "https://raw.githubusercontent.com/python-discord" +
	"/branding/main/seasonal/christmas/server_icons/festive_256.gif"

// countdownStep aligns the countdown status to 5 minute boundaries.
const countdownStep = 5 * time.Minute

// completionistInterval is how often the completionist role sync runs.
const completionistInterval = 10 * time.Minute

// boardCapacity is the member limit of an AoC private leaderboard.
const boardCapacity = 200

// requiredCacheKeys must all be present for a cached leaderboard to be
// considered usable.
var requiredCacheKeys = []string{
	"full_leaderboard",
	"top_leaderboard",
	"full_leaderboard_url",
	"leaderboard_fetched_at",
	"number_of_participants",
	"daily_stats",
}

// est returns the AoC event timezone. Puzzles unlock at midnight
// Eastern.
var est = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}()

// Extension handles all Advent of Code functionality.
type Extension struct {
	bot    *bot.Bot
	client *client

	// Leaderboard fetches are serialized so a cache miss triggers a
	// single request to the AoC website.
	fetchMu sync.Mutex

	leaderboardCache  *rediscache.Cache
	leaderboardCounts *rediscache.Cache
	assignedBoards    *rediscache.Cache
	accountLinks      *rediscache.Cache
	blockList         *rediscache.Cache
	settings          *rediscache.Cache
}

func New() *Extension {
	return &Extension{}
}

func (e *Extension) Name() string {
	return "AdventOfCode"
}

func (e *Extension) Register(b *bot.Bot) error {
	e.bot = b
	e.client = newClient(b.Config.AdventOfCode.FallbackSession)
	e.leaderboardCache = rediscache.NewCache(b.Redis, "aoc.leaderboard_cache")
	e.leaderboardCounts = rediscache.NewCache(b.Redis, "aoc.leaderboard_counts")
	e.assignedBoards = rediscache.NewCache(b.Redis, "aoc.assigned_leaderboard")
	e.accountLinks = rediscache.NewCache(b.Redis, "aoc.account_links")
	e.blockList = rediscache.NewCache(b.Redis, "aoc.completionist_block_list")
	e.settings = rediscache.NewCache(b.Redis, "aoc.settings")

	e.registerCommands(b)

	startTime := e.startTime()
	if err := e.scheduleAt(startTime.Add(-2*time.Hour), e.countdownStatus); err != nil {
		return err
	}
	if err := e.scheduleAt(startTime.Add(-time.Hour), e.puzzleNotification); err != nil {
		return err
	}
	if _, err := b.Scheduler.NewJob(
		gocron.DurationJob(completionistInterval),
		gocron.NewTask(e.syncCompletionistRole),
	); err != nil {
		return fmt.Errorf("failed to schedule completionist sync: %w", err)
	}
	return nil
}

// startTime is when the configured year's event begins: 1 December,
// midnight Eastern.
func (e *Extension) startTime() time.Time {
	return time.Date(e.bot.Config.AdventOfCode.Year, time.December, 1, 0, 0, 0, 0, est)
}

// lastPuzzleTime is when the final puzzle of the event unlocks.
func (e *Extension) lastPuzzleTime() time.Time {
	return time.Date(e.bot.Config.AdventOfCode.Year, time.December, 25, 0, 0, 0, 0, est)
}

// scheduleAt runs task at the given time. Times already in the past
// start immediately, which covers restarting the bot mid-event.
func (e *Extension) scheduleAt(at time.Time, task func()) error {
	if !at.After(time.Now()) {
		go task()
		return nil
	}
	_, err := e.bot.Scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)),
		gocron.NewTask(task),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule task: %w", err)
	}
	return nil
}

// isInAdvent reports whether we're on an Advent of Code day, excluding
// 25 December since its puzzle is the last one.
func isInAdvent(now time.Time) bool {
	now = now.In(est)
	return now.Month() == time.December && now.Day() >= 1 && now.Day() < 25
}

// nextESTMidnight returns the next midnight Eastern and the time left
// until it.
func nextESTMidnight(now time.Time) (time.Time, time.Duration) {
	now = now.In(est)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, est).AddDate(0, 0, 1)
	return midnight, midnight.Sub(now)
}

// fetchLeaderboard returns the cached combined leaderboard, fetching a
// fresh copy from the AoC website when the cache is missing, malformed
// or explicitly invalidated.
func (e *Extension) fetchLeaderboard(ctx context.Context, invalidateCache bool) (map[string]string, error) {
	e.fetchMu.Lock()
	defer e.fetchMu.Unlock()

	cached, err := e.leaderboardCache.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}
	usable := true
	for _, key := range requiredCacheKeys {
		if _, ok := cached[key]; !ok {
			usable = false
			break
		}
	}
	if usable && !invalidateCache {
		return cached, nil
	}

	slog.Info("no leaderboard cache available, fetching leaderboards")
	cfg := e.bot.Config.AdventOfCode
	members, counts, err := e.client.fetchAll(ctx, cfg.Year, cfg.Leaderboards)
	if err != nil {
		return nil, err
	}
	countValues := make(map[string]any, len(counts))
	for id, count := range counts {
		countValues[id] = count
	}
	if err := e.leaderboardCounts.Update(ctx, countValues); err != nil {
		return nil, fmt.Errorf("failed to store leaderboard counts: %w", err)
	}

	parsed := ParseRawLeaderboard(members, cfg.IgnoredDays)
	formatted, err := FormatLeaderboard(parsed.Entries, "")
	if err != nil {
		return nil, err
	}
	fullBoardURL := e.uploadLeaderboard(ctx, formatted)

	rawJSON, err := json.Marshal(members)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize leaderboard: %w", err)
	}
	dailyStatsJSON, err := json.Marshal(parsed.DailyStats)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize daily stats: %w", err)
	}
	perDayAndStarJSON, err := json.Marshal(parsed.PerDayAndStar)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize per day and star data: %w", err)
	}

	cached = map[string]string{
		"placement_leaderboard":        string(rawJSON),
		"full_leaderboard":             formatted,
		"top_leaderboard":              TopLeaderboard(formatted, cfg.LeaderboardDisplayedMembers),
		"full_leaderboard_url":         fullBoardURL,
		"leaderboard_fetched_at":       time.Now().UTC().Format(time.RFC3339),
		"number_of_participants":       strconv.Itoa(len(parsed.Entries)),
		"daily_stats":                  string(dailyStatsJSON),
		"leaderboard_per_day_and_star": string(perDayAndStarJSON),
	}
	values := make(map[string]any, len(cached))
	for key, value := range cached {
		values[key] = value
	}
	if err := e.leaderboardCache.Update(ctx, values); err != nil {
		return nil, fmt.Errorf("failed to store leaderboard cache: %w", err)
	}
	expiry := time.Duration(cfg.LeaderboardCacheExpiry) * time.Second
	if err := e.leaderboardCache.Expire(ctx, expiry); err != nil {
		return nil, fmt.Errorf("failed to expire leaderboard cache: %w", err)
	}
	return cached, nil
}

// placementLeaderboard formats the cached raw leaderboard with the
// given participant's row lifted to the top.
func (e *Extension) placementLeaderboard(cached map[string]string, selfPlacement string) (string, error) {
	var members map[string]RawMember
	if err := json.Unmarshal([]byte(cached["placement_leaderboard"]), &members); err != nil {
		return "", fmt.Errorf("malformed cached leaderboard: %w", err)
	}
	parsed := ParseRawLeaderboard(members, e.bot.Config.AdventOfCode.IgnoredDays)
	formatted, err := FormatLeaderboard(parsed.Entries, selfPlacement)
	if err != nil {
		return "", bot.NewBadArgument("%s", err)
	}
	return TopLeaderboard(formatted, e.bot.Config.AdventOfCode.LeaderboardDisplayedMembers), nil
}

// uploadLeaderboard puts the full board on the paste service. An empty
// URL is returned on failure so the summary embed simply omits it.
func (e *Extension) uploadLeaderboard(ctx context.Context, formatted string) string {
	// Cap the upload so we stay under the paste length limit. Two
	// extra lines for the table header.
	capped := TopLeaderboard(formatted, 1000)
	url, err := e.bot.Paste.Upload(ctx, capped, "txt")
	if err != nil {
		slog.Error("failed to upload full leaderboard to paste service", "error", err)
		return ""
	}
	return url
}

// summaryEmbed builds the embed with the leaderboard's summary stats.
func (e *Extension) summaryEmbed(cached map[string]string) *discordgo.MessageEmbed {
	refreshMinutes := e.bot.Config.AdventOfCode.LeaderboardCacheExpiry / 60
	fetchedAt, _ := time.Parse(time.RFC3339, cached["leaderboard_fetched_at"])

	embed := &discordgo.MessageEmbed{
		Color: bot.ColourSoftGreen,
		Description: fmt.Sprintf(
			"The leaderboard is refreshed every %d minutes.\nLast Updated: <t:%d:t>",
			refreshMinutes, fetchedAt.Unix(),
		),
		Author:    &discordgo.MessageEmbedAuthor{Name: "Advent of Code", URL: cached["full_leaderboard_url"]},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: embedThumbnail},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Number of Participants", Value: cached["number_of_participants"], Inline: true},
		},
	}
	if url := cached["full_leaderboard_url"]; url != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Full Leaderboard",
			Value:  fmt.Sprintf("[Python Discord Leaderboard](%s)", url),
			Inline: true,
		})
	}
	return embed
}

// publicJoinCode assigns the author to the emptiest non-staff board and
// returns its join code. A previously assigned board is reused while it
// still has room, so nobody collects codes for multiple boards.
func (e *Extension) publicJoinCode(ctx context.Context, authorID string) (string, error) {
	if _, err := e.fetchLeaderboard(ctx, false); err != nil {
		return "", err
	}
	cfg := e.bot.Config.AdventOfCode

	counts, err := e.leaderboardCounts.Items(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read board counts: %w", err)
	}
	delete(counts, cfg.StaffLeaderboardID)

	if previous, err := e.assignedBoards.Get(ctx, authorID); err == nil {
		count, _ := strconv.Atoi(counts[previous])
		if count < boardCapacity {
			slog.Info("user already assigned to a board with open slots", "user", authorID, "board", previous)
			return cfg.Leaderboards[previous].JoinCode, nil
		}
		slog.Info("user's assigned board is full, assigning another",
			"user", authorID, "board", previous)
	}

	if len(counts) == 0 {
		slog.Warn("leaderboard counts were missing from the cache unexpectedly")
		if _, err := e.fetchLeaderboard(ctx, true); err != nil {
			return "", err
		}
		counts, err = e.leaderboardCounts.Items(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to read board counts: %w", err)
		}
		delete(counts, cfg.StaffLeaderboardID)
	}

	bestBoard := ""
	bestCount := math.MaxInt
	for id, raw := range counts {
		count, _ := strconv.Atoi(raw)
		if count < bestCount {
			bestBoard, bestCount = id, count
		}
	}
	if bestBoard == "" || bestCount >= boardCapacity {
		slog.Warn("user requested a join code but all boards are full", "user", authorID)
		return "", nil
	}

	slog.Info("assigning user to board", "user", authorID, "board", bestBoard)
	if err := e.assignedBoards.Set(ctx, authorID, bestBoard); err != nil {
		return "", fmt.Errorf("failed to record board assignment: %w", err)
	}
	return cfg.Leaderboards[bestBoard].JoinCode, nil
}

// countdownStatus updates the bot presence with the time until the next
// puzzle, aligned to 5 minute steps. Runs until an hour after the last
// puzzle unlocks.
func (e *Extension) countdownStatus() {
	slog.Info("the Advent of Code has started or will start soon, starting countdown status")
	end := e.lastPuzzleTime().Add(time.Hour)

	for time.Now().In(est).Before(end) {
		_, timeLeft := nextESTMidnight(time.Now())

		aligned := time.Duration(math.Ceil(float64(timeLeft)/float64(countdownStep))) * countdownStep
		hours := int(aligned.Hours())
		minutes := int(aligned.Minutes()) % 60

		var playing string
		switch {
		case aligned == 0:
			playing = "right now!"
		case aligned == countdownStep:
			playing = fmt.Sprintf("in less than %d minutes", minutes)
		case hours == 0:
			playing = fmt.Sprintf("in %d minutes", minutes)
		case hours == 23:
			playing = fmt.Sprintf("since %d minutes ago", 60-minutes)
		default:
			playing = fmt.Sprintf("in %d hours and %d minutes", hours, minutes)
		}

		// Shows up as "Playing in 5 hours and 30 minutes".
		if err := e.bot.Session.UpdateGameStatus(0, playing); err != nil {
			slog.Warn("failed to update countdown presence", "error", err)
		}

		delay := timeLeft % countdownStep
		if delay == 0 {
			delay = countdownStep
		}
		time.Sleep(delay)
	}
}

// puzzleNotification announces each new puzzle right after it unlocks
// at midnight Eastern.
func (e *Extension) puzzleNotification() {
	slog.Info("the Advent of Code has started or will start soon, waking up notification task")
	channelID := e.bot.Config.Channels.AdventOfCode
	roleID := e.bot.Config.Roles.AdventOfCode
	end := e.lastPuzzleTime()

	for time.Now().In(est).Before(end) {
		tomorrow, timeLeft := nextESTMidnight(time.Now())
		// Pad the sleep slightly to make sure we wake up after
		// midnight.
		time.Sleep(timeLeft + 100*time.Millisecond)

		puzzleURL := fmt.Sprintf("https://adventofcode.com/%d/day/%d",
			e.bot.Config.AdventOfCode.Year, tomorrow.Day())

		// The puzzle page occasionally lags behind midnight. Make sure
		// it is actually available before sending members there.
		available := false
		for retry := 1; retry <= 4; retry++ {
			slog.Debug("checking puzzle availability", "attempt", retry)
			if e.puzzleAvailable(puzzleURL) {
				available = true
				break
			}
			time.Sleep(10 * time.Second)
		}
		if !available {
			slog.Error("the puzzle does not appear to be available at this time, canceling announcement")
			return
		}

		content := fmt.Sprintf(
			"<@&%s> Good morning! Day %d is ready to be attempted. View it online now at %s. Good luck!",
			roleID, tomorrow.Day(), puzzleURL,
		)
		_, err := e.bot.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: content,
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Roles: []string{roleID},
			},
		})
		if err != nil {
			slog.Error("failed to send puzzle notification", "error", err)
		}

		// Sleep well past midnight so the next iteration calculates
		// the time to the following midnight.
		time.Sleep(2 * time.Minute)
	}
}

func (e *Extension) puzzleAvailable(url string) bool {
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := e.bot.HTTP.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// syncCompletionistRole gives the completionist role to members who
// have earned all 50 stars and linked their AoC name.
func (e *Extension) syncCompletionistRole() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	enabled, err := e.settings.GetBool(ctx, "completionist_enabled")
	if err != nil || !enabled {
		return
	}

	roleID := e.bot.Config.Roles.AoCCompletionist
	links, err := e.accountLinks.Items(ctx)
	if err != nil {
		slog.Error("failed to read account links", "error", err)
		return
	}
	nameToMember := make(map[string]string, len(links))
	for memberID, aocName := range links {
		nameToMember[aocName] = memberID
	}

	cached, err := e.fetchLeaderboard(ctx, false)
	if err != nil {
		e.bot.SendDevLog("Advent of Code", "Unable to fetch AoC leaderboard during role sync.")
		return
	}
	var members map[string]RawMember
	if err := json.Unmarshal([]byte(cached["placement_leaderboard"]), &members); err != nil {
		slog.Error("malformed cached leaderboard", "error", err)
		return
	}

	for _, aocMember := range members {
		if aocMember.Stars != 50 {
			continue
		}
		memberID, ok := nameToMember[aocMember.DisplayName()]
		if !ok {
			continue
		}
		member, err := e.bot.Session.GuildMember(e.bot.Config.Client.Guild, memberID)
		if err != nil {
			slog.Debug("could not fetch member, not giving role", "member", memberID)
			continue
		}
		hasRole := false
		for _, id := range member.Roles {
			if id == roleID {
				hasRole = true
				break
			}
		}
		if hasRole {
			continue
		}
		blocked, err := e.blockList.Contains(ctx, memberID)
		if err != nil || blocked {
			continue
		}
		slog.Debug("giving completionist role", "member", memberID)
		if err := e.bot.Session.GuildMemberRoleAdd(e.bot.Config.Client.Guild, memberID, roleID); err != nil {
			slog.Warn("failed to give completionist role", "member", memberID, "error", err)
		}
	}
}
