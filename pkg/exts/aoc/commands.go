package aoc

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/python-discord/sir-robin-go/pkg/bot"
)

//go:embed about.json
var aboutFields []byte

func (e *Extension) registerCommands(b *bot.Bot) {
	// Some commands can be run in the regular Advent of Code channel
	// since they aren't spammy and foster discussion.
	restricted := []string{
		b.Config.Channels.BotCommands,
		b.Config.Channels.SirLancebotPlayground,
		b.Config.Channels.AdventOfCodeCommands,
	}
	open := append([]string{b.Config.Channels.AdventOfCode}, restricted...)
	redirect := b.Config.Channels.AdventOfCodeCommands

	admins := bot.WithAnyRole(true, b.Config.Roles.Admins)
	linkMonths := bot.InMonth(time.November, time.December, time.January, time.February)
	boardMonths := bot.InMonth(time.December, time.January, time.February)

	group := &bot.Command{
		Name:    "adventofcode",
		Aliases: []string{"aoc"},
		Help:    "All of the Advent of Code commands.",
	}
	group.AddSubcommand(&bot.Command{
		Name:   "join",
		Help:   "Get the join code for our community Advent of Code leaderboard.",
		Checks: []bot.Check{bot.InWhitelist(open, redirect, false)},
		Run:    e.join,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "about",
		Aliases: []string{"ab", "info"},
		Help:    "Learn about Advent of Code.",
		Checks:  []bot.Check{bot.InWhitelist(open, redirect, false)},
		Run:     e.about,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "countdown",
		Aliases: []string{"count", "c"},
		Help:    "Return time left until next day.",
		Run:     e.countdown,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "link",
		Aliases: []string{"connect"},
		Usage:   "aoc link <aoc name>",
		Help:    "Tie your Discord account with your Advent of Code name.",
		Checks:  []bot.Check{linkMonths, bot.InWhitelist(open, redirect, false)},
		Run:     e.link,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "unlink",
		Aliases: []string{"disconnect"},
		Help:    "Untie your Discord account from your Advent of Code name.",
		Checks:  []bot.Check{linkMonths, bot.InWhitelist(open, redirect, false)},
		Run:     e.unlink,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "leaderboard",
		Aliases: []string{"board", "lb"},
		Usage:   "aoc leaderboard [aoc name]",
		Help:    "Get a snapshot of the PyDis private AoC leaderboard.",
		Checks:  []bot.Check{boardMonths, bot.InWhitelist(restricted, redirect, false)},
		Run:     e.leaderboard,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "global",
		Aliases: []string{"globalboard", "gb"},
		Help:    "Get a link to the global leaderboard.",
		Checks:  []bot.Check{boardMonths, bot.InWhitelist(restricted, redirect, false)},
		Run:     e.globalBoard,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "stats",
		Aliases: []string{"dailystats", "ds"},
		Help:    "Get daily statistics for the Python Discord leaderboard.",
		Checks:  []bot.Check{boardMonths, bot.InWhitelist(restricted, redirect, false)},
		Run:     e.dailyStats,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "dayandstar",
		Aliases: []string{"daynstar", "daystar"},
		Usage:   "aoc dayandstar <day> <star> [max scorers]",
		Help:    "Filter the leaderboard by day and star.",
		Checks:  []bot.Check{boardMonths, bot.InWhitelist(restricted, redirect, false)},
		Run:     e.dayAndStar,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "refresh",
		Aliases: []string{"fetch"},
		Help:    "Force a refresh of the leaderboard cache.",
		Checks:  []bot.Check{admins},
		Run:     e.refresh,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "completionist_toggle",
		Aliases: []string{"ct", "toggle"},
		Help:    "Toggle whether or not the completionist role is issued to new users.",
		Checks:  []bot.Check{admins},
		Run:     e.completionistToggle,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "block",
		Usage:  "aoc block <user id>",
		Help:   "Block a user from getting the completionist role.",
		Checks: []bot.Check{admins},
		Run:    e.block,
	})

	b.Router().Register(group)
}

func (e *Extension) join(ctx *bot.Context) error {
	cfg := ctx.Bot.Config.AdventOfCode
	now := time.Now().UTC()

	// Joining only makes sense in the run up to the event and the
	// January following it.
	inSeason := (now.Year() == cfg.Year && (now.Month() == time.November || now.Month() == time.December)) ||
		(now.Year() == cfg.Year+1 && now.Month() == time.January)
	if !inSeason {
		return ctx.Replyf("The Python Discord leaderboard for %d is not yet available!", now.Year())
	}

	author := ctx.Author()
	slog.Info("user requested a leaderboard join code", "user", author.ID)

	var joinCode string
	if cfg.StaffLeaderboardID != "" && ctx.HasAnyRole(ctx.Bot.Config.Roles.Helpers) {
		joinCode = cfg.Leaderboards[cfg.StaffLeaderboardID].JoinCode
	} else {
		var err error
		joinCode, err = e.publicJoinCode(ctx.Context(), author.ID)
		if err != nil {
			_ = ctx.Reply(":x: Failed to get join code! Notified maintainers.")
			return err
		}
	}

	if joinCode == "" {
		slog.Error("failed to get a join code for user", "user", author.ID)
		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "Unable to get join code",
			Description: "Failed to get a join code to one of our boards. Please notify staff.",
			Color:       bot.ColourSoftRed,
		})
	}

	// The code goes to the user's DMs so it doesn't float around in
	// public channels.
	dm, err := ctx.Session.UserChannelCreate(author.ID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	info := strings.Join([]string{
		"To join our leaderboard, follow these steps:",
		"• Log in on https://adventofcode.com",
		"• Head over to https://adventofcode.com/leaderboard/private",
		fmt.Sprintf("• Use this code `%s` to join the Python Discord leaderboard!", joinCode),
	}, "\n")
	if _, err := ctx.Session.ChannelMessageSend(dm.ID, info); err != nil {
		return ctx.Reply("I couldn't DM you the join code. Please enable DMs from server members and try again.")
	}
	return ctx.React(ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) about(ctx *bot.Context) error {
	var fields []*discordgo.MessageEmbedField
	if err := json.Unmarshal(aboutFields, &fields); err != nil {
		return fmt.Errorf("malformed about resource: %w", err)
	}

	baseURL := fmt.Sprintf("https://adventofcode.com/%d", ctx.Bot.Config.AdventOfCode.Year)
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:     baseURL,
		URL:       baseURL,
		Color:     bot.ColourSoftGreen,
		Author:    &discordgo.MessageEmbedAuthor{Name: "Advent of Code", URL: baseURL},
		Fields:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Last Updated"},
	})
}

func (e *Extension) countdown(ctx *bot.Context) error {
	now := time.Now()
	if isInAdvent(now) {
		tomorrow, _ := nextESTMidnight(now)
		return ctx.Replyf("Day %d starts <t:%d:R>.", tomorrow.Day(), tomorrow.Unix())
	}

	// Find the nearest upcoming 1 December.
	nowEST := now.In(est)
	next := time.Date(nowEST.Year(), time.December, 1, 0, 0, 0, 0, est)
	if next.Before(nowEST) {
		next = time.Date(nowEST.Year()+1, time.December, 1, 0, 0, 0, 0, est)
	}
	return ctx.Replyf(
		"The Advent of Code event is not currently running. The next event will start <t:%d:R>.",
		next.Unix(),
	)
}

func (e *Extension) link(ctx *bot.Context) error {
	authorID := ctx.Author().ID
	aocName := strings.Join(ctx.Args, " ")
	aocName = strings.Trim(aocName, `"`)

	if aocName == "" {
		if cached, err := e.accountLinks.Get(ctx.Context(), authorID); err == nil {
			return ctx.Replyf("You have already linked an Advent of Code account: %s.", cached)
		}
		return ctx.Reply(
			"You have not linked an Advent of Code account. Please re-run the command with one specified.")
	}

	links, err := e.accountLinks.Items(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to read account links: %w", err)
	}
	if links[authorID] == aocName {
		return ctx.Replyf("%s is already tied to your account.", aocName)
	}
	for memberID, linked := range links {
		if linked == aocName && memberID != authorID {
			slog.Info("aoc name already connected to another user", "user", authorID, "name", aocName)
			return ctx.Replyf(
				"%s is already tied to another account."+
					" Please contact an admin if you believe this is an error.", aocName)
		}
	}

	oldName := links[authorID]
	if err := e.accountLinks.Set(ctx.Context(), authorID, aocName); err != nil {
		return fmt.Errorf("failed to store account link: %w", err)
	}
	if oldName != "" {
		slog.Info("changing account link", "user", authorID, "from", oldName, "to", aocName)
		return ctx.Replyf("Your linked account has been changed to %s.", aocName)
	}
	slog.Info("linking account", "user", authorID, "name", aocName)
	return ctx.Replyf("You have linked your Discord ID to %s.", aocName)
}

func (e *Extension) unlink(ctx *bot.Context) error {
	authorID := ctx.Author().ID
	aocName, err := e.accountLinks.Get(ctx.Context(), authorID)
	if err != nil {
		slog.Info("attempted to unlink but no link was found", "user", authorID)
		return ctx.Reply("You don't have an Advent of Code account linked.")
	}

	slog.Info("unlinking account", "user", authorID, "name", aocName)
	if err := e.accountLinks.Delete(ctx.Context(), authorID); err != nil {
		return fmt.Errorf("failed to delete account link: %w", err)
	}
	return ctx.Replyf("We have removed the link between your Discord ID and %s.", aocName)
}

func (e *Extension) leaderboard(ctx *bot.Context) error {
	aocName := strings.Trim(strings.Join(ctx.Args, " "), `"`)
	if aocName == "" {
		if cached, err := e.accountLinks.Get(ctx.Context(), ctx.Author().ID); err == nil {
			aocName = cached
		}
	}

	_ = ctx.Session.ChannelTyping(ctx.Message.ChannelID)
	cached, err := e.fetchLeaderboard(ctx.Context(), false)
	if err != nil {
		_ = ctx.Reply(":x: Unable to fetch leaderboard!")
		return err
	}

	table := cached["top_leaderboard"]
	selfPlacementHeader := ""
	if aocName != "" {
		table, err = e.placementLeaderboard(cached, aocName)
		if err != nil {
			return err
		}
		selfPlacementHeader = " (and your personal stats compared to the top 10)"
	}

	participants, _ := strconv.Atoi(cached["number_of_participants"])
	topCount := ctx.Bot.Config.AdventOfCode.LeaderboardDisplayedMembers
	if participants < topCount {
		topCount = participants
	}
	header := fmt.Sprintf("Here's our current top %d%s! %s",
		topCount, selfPlacementHeader, strings.Repeat(ctx.Bot.Config.Emojis.ChristmasTree, 3))

	_, err = ctx.Session.ChannelMessageSendComplex(ctx.Message.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("%s\n\n```\n%s\n```", header, table),
		Embed:   e.summaryEmbed(cached),
	})
	return err
}

func (e *Extension) globalBoard(ctx *bot.Context) error {
	url := fmt.Sprintf("https://adventofcode.com/%d/leaderboard", ctx.Bot.Config.AdventOfCode.Year)
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "Advent of Code — Global Leaderboard",
		Description: fmt.Sprintf("You can find the global leaderboard [here](%s).", url),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: embedThumbnail},
	})
}

func (e *Extension) dailyStats(ctx *bot.Context) error {
	cached, err := e.fetchLeaderboard(ctx.Context(), false)
	if err != nil {
		_ = ctx.Reply(":x: Can't fetch leaderboard for stats right now!")
		return err
	}

	var dailyStats map[string]DayStats
	if err := json.Unmarshal([]byte(cached["daily_stats"]), &dailyStats); err != nil {
		return fmt.Errorf("malformed cached daily stats: %w", err)
	}
	participants, _ := strconv.Atoi(cached["number_of_participants"])
	if participants == 0 {
		participants = 1
	}

	lines := []string{"Day   ⭐  ⭐⭐ |   %⭐    %⭐⭐\n================================"}
	for day := 1; day <= 25; day++ {
		stats := dailyStats[strconv.Itoa(day)]
		pOne := float64(stats.StarOne) / float64(participants) * 100
		pTwo := float64(stats.StarTwo) / float64(participants) * 100
		lines = append(lines, fmt.Sprintf(
			"%2d) %4d  %4d | %6.2f%% %6.2f%%", day, stats.StarOne, stats.StarTwo, pOne, pTwo))
	}

	_, err = ctx.Session.ChannelMessageSendComplex(ctx.Message.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("```\n%s\n```", strings.Join(lines, "\n")),
		Embed:   e.summaryEmbed(cached),
	})
	return err
}

func (e *Extension) dayAndStar(ctx *bot.Context) error {
	maxResults := ctx.Bot.Config.AdventOfCode.MaxDayAndStarResults
	if len(ctx.Args) < 2 || len(ctx.Args) > 3 {
		return bot.NewBadArgument("Provide the day and the star to filter by.")
	}
	day, err := strconv.Atoi(ctx.Args[0])
	if err != nil || day < 1 || day > 25 {
		return bot.NewBadArgument("Day must be between 1 and 25.")
	}
	star, err := strconv.Atoi(ctx.Args[1])
	if err != nil || star < 1 || star > 2 {
		return bot.NewBadArgument("Star must be 1 or 2.")
	}
	scorers := 10
	if len(ctx.Args) == 3 {
		scorers, err = strconv.Atoi(ctx.Args[2])
		if err != nil || scorers <= 0 || scorers > maxResults {
			return bot.NewBadArgument("The maximum number of results you can query is %d", maxResults)
		}
	}

	_ = ctx.Session.ChannelTyping(ctx.Message.ChannelID)
	cached, err := e.fetchLeaderboard(ctx.Context(), false)
	if err != nil {
		_ = ctx.Reply(":x: Unable to fetch leaderboard!")
		return err
	}

	var perDayAndStar map[string][]StarCompletion
	if err := json.Unmarshal([]byte(cached["leaderboard_per_day_and_star"]), &perDayAndStar); err != nil {
		return fmt.Errorf("malformed cached per day and star data: %w", err)
	}

	completions := perDayAndStar[fmt.Sprintf("%d-%d", day, star)]
	if len(completions) == 0 {
		return ctx.Replyf("Nobody has completed star %d of day %d yet.", star, day)
	}
	if len(completions) > scorers {
		completions = completions[:scorers]
	}

	var sb strings.Builder
	for i, completion := range completions {
		fmt.Fprintf(&sb, "%2d) %s <t:%d:R>\n", i+1, completion.MemberName, completion.CompletionTime)
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Fastest solvers of star %d of day %d", star, day),
		Description: sb.String(),
		Color:       bot.ColourSoftGreen,
	})
}

func (e *Extension) refresh(ctx *bot.Context) error {
	_ = ctx.Session.ChannelTyping(ctx.Message.ChannelID)
	if _, err := e.fetchLeaderboard(ctx.Context(), true); err != nil {
		_ = ctx.Reply(":x: Something went wrong while trying to refresh the cache!")
		return err
	}
	return ctx.Reply("\U0001F44C Refreshed leaderboard cache!")
}

func (e *Extension) completionistToggle(ctx *bot.Context) error {
	current, err := e.settings.GetBool(ctx.Context(), "completionist_enabled")
	if err != nil {
		current = false
	}
	newState := !current
	if err := e.settings.Set(ctx.Context(), "completionist_enabled", newState); err != nil {
		return fmt.Errorf("failed to store completionist setting: %w", err)
	}

	state := "off"
	if newState {
		state = "on"
	}
	return ctx.Replyf(":+1: Completionist role issuing is now %s.", state)
}

func (e *Extension) block(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Provide the user to block.")
	}
	userID := strings.Trim(ctx.Args[0], "<@!>")
	if _, err := strconv.ParseInt(userID, 10, 64); err != nil {
		return bot.NewBadArgument("That doesn't look like a user mention or ID.")
	}

	roleID := ctx.Bot.Config.Roles.AoCCompletionist
	member, err := ctx.Session.GuildMember(ctx.Bot.Config.Client.Guild, userID)
	if err == nil {
		for _, id := range member.Roles {
			if id == roleID {
				if err := ctx.Session.GuildMemberRoleRemove(
					ctx.Bot.Config.Client.Guild, userID, roleID,
				); err != nil {
					return fmt.Errorf("failed to remove completionist role: %w", err)
				}
				break
			}
		}
	}

	if err := e.blockList.Set(ctx.Context(), userID, "sentinel"); err != nil {
		return fmt.Errorf("failed to store block entry: %w", err)
	}
	return ctx.Replyf(":+1: Blocked <@%s> from getting the AoC completionist role.", userID)
}
