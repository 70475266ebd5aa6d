// Package summeraoc runs the Revival of Code event: old Advent of Code
// puzzles replayed over the summer at a slower pace.
package summeraoc

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/python-discord/sir-robin-go/pkg/bot"
	"github.com/python-discord/sir-robin-go/pkg/rediscache"
)

const (
	aocURLFormat = "https://adventofcode.com/%d/day/%d"

	// PublicName is how the event is announced to the server.
	PublicName = "Revival of Code"

	// FirstYear is the first Advent of Code event.
	FirstYear = 2015

	// LastDay is the final puzzle day of an Advent of Code event.
	LastDay = 25

	// threadArchiveMinutes is the auto archive duration of spoiler
	// threads, in minutes.
	threadArchiveMinutes = 24 * 60
)

const postText = `
The next puzzle in our %s is now released!

We're revisiting an old Advent of Code event at a slower pace. To participate, check out the linked puzzle then come join us in this thread when you've solved it or need help!

*Please remember to keep all solution spoilers for this puzzle in the thread.*
If you have questions or suggestions about the event itself, head over to <#%s>.
%s
`

const nextPuzzleText = `
The next puzzle will be posted <t:%d:R>.
To recieve notifications when new puzzles are released, head over to <#%s> and assign yourself the Revival of Code role.
`

const lastPuzzleText = `
This is the last puzzle! ||...until Advent of Code starts <t:%d:R>!||
`

// State is the persisted event state.
type State struct {
	IsRunning     bool
	Year          int
	CurrentDay    int
	DayInterval   int
	PostTime      int
	FirstPostDate *time.Time
}

// IsConfigured reports whether enough settings are stored to run the
// event.
func (s State) IsConfigured() bool {
	return s.Year != 0 && s.CurrentDay != 0 && s.DayInterval != 0
}

// NextPostTime calculates when the next puzzle should be posted.
func (s State) NextPostTime(now time.Time) time.Time {
	if s.FirstPostDate == nil {
		next := time.Date(now.Year(), now.Month(), now.Day(), s.PostTime, 0, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}
	interval := time.Duration(s.DayInterval) * 24 * time.Hour
	sinceStart := now.Sub(*s.FirstPostDate)
	return now.Add(interval - sinceStart%interval)
}

// Extension handles all Revival of Code functionality.
type Extension struct {
	bot   *bot.Bot
	cache *rediscache.Cache

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

func New() *Extension {
	return &Extension{}
}

func (e *Extension) Name() string {
	return "SummerAoC"
}

func (e *Extension) Register(b *bot.Bot) error {
	e.bot = b
	e.cache = rediscache.NewCache(b.Redis, "summer_aoc")

	if err := e.loadState(context.Background()); err != nil {
		return fmt.Errorf("failed to load event state: %w", err)
	}

	e.mu.Lock()
	if e.state.IsRunning {
		if e.state.IsConfigured() {
			e.startEventLocked()
		} else {
			slog.Error("event state incomplete, not resuming the event")
			e.state.IsRunning = false
			if err := e.saveStateLocked(context.Background()); err != nil {
				e.mu.Unlock()
				return err
			}
		}
	}
	e.mu.Unlock()

	e.registerCommands(b)
	return nil
}

func (e *Extension) registerCommands(b *bot.Bot) {
	staff := bot.WithAnyRole(false,
		b.Config.Roles.Admins,
		b.Config.Roles.EventsLead,
		b.Config.Roles.EventRunner,
	)

	group := &bot.Command{
		Name:    "summeraoc",
		Aliases: []string{"roc", "revivalofcode"},
		Help:    "Commands for managing the Revival of Code event.",
		Checks:  []bot.Check{staff},
	}
	group.AddSubcommand(&bot.Command{
		Name:   "info",
		Help:   "Display info about the state of the event.",
		Checks: []bot.Check{staff},
		Run:    e.info,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "start",
		Usage:  "summeraoc start <year> <day interval> [post hour]",
		Help:   "Start the event. To start from a day other than 1, use the force command.",
		Checks: []bot.Check{staff},
		Run:    e.start,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "force",
		Usage:  "summeraoc force <day> [now]",
		Help:   "Force-set the current day of the event. Pass now to post the puzzle immediately.",
		Checks: []bot.Check{staff},
		Run:    e.force,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "stop",
		Help:   "Stop the event.",
		Checks: []bot.Check{staff},
		Run:    e.stop,
	})
	b.Router().Register(group)
}

func (e *Extension) info(ctx *bot.Context) error {
	e.mu.Lock()
	embed := e.infoEmbedLocked()
	e.mu.Unlock()
	return ctx.ReplyEmbed(embed)
}

func (e *Extension) start(ctx *bot.Context) error {
	if len(ctx.Args) < 2 || len(ctx.Args) > 3 {
		return bot.NewBadArgument("Provide the event year and the day interval.")
	}

	lastYear := time.Now().UTC().Year() - 1
	year, err := strconv.Atoi(ctx.Args[0])
	if err != nil || year < FirstYear || year > lastYear {
		return bot.NewBadArgument("Year must be between %d and %d, inclusive", FirstYear, lastYear)
	}
	dayInterval, err := strconv.Atoi(ctx.Args[1])
	if err != nil || dayInterval < 1 {
		return bot.NewBadArgument("Day interval must be at least 1")
	}
	postTime := 0
	if len(ctx.Args) == 3 {
		postTime, err = strconv.Atoi(ctx.Args[2])
		if err != nil || postTime < 0 || postTime > 23 {
			return bot.NewBadArgument("Post time must be between 0 and 23")
		}
	}

	e.mu.Lock()
	if e.state.IsRunning {
		e.mu.Unlock()
		return ctx.Reply("A Revival of Code event is already running!")
	}
	e.state = State{
		IsRunning:   true,
		Year:        year,
		CurrentDay:  1,
		DayInterval: dayInterval,
		PostTime:    postTime,
	}
	if err := e.saveStateLocked(ctx.Context()); err != nil {
		e.mu.Unlock()
		return err
	}
	embed := e.infoEmbedLocked()
	e.startEventLocked()
	e.mu.Unlock()

	embed.Title = "Event started!"
	embed.Color = bot.ColourBrightGreen
	return ctx.ReplyEmbed(embed)
}

func (e *Extension) force(ctx *bot.Context) error {
	if len(ctx.Args) < 1 || len(ctx.Args) > 2 {
		return bot.NewBadArgument("Provide the day to jump to.")
	}
	postNow := false
	if len(ctx.Args) == 2 {
		if ctx.Args[1] != "now" {
			return bot.NewBadArgument("Unrecognized option: %s", ctx.Args[1])
		}
		postNow = true
	}

	day, err := strconv.Atoi(ctx.Args[0])
	if err != nil || day < 1 || day > LastDay {
		return bot.NewBadArgument("Start day must be between 1 and %d, inclusive", LastDay)
	}

	e.mu.Lock()
	if !e.state.IsConfigured() {
		embed := e.infoEmbedLocked()
		e.mu.Unlock()
		embed.Title = "The necessary settings are not configured to start the event"
		embed.Color = bot.ColourSoftRed
		return ctx.ReplyEmbed(embed)
	}

	slog.Info("forcing the current event day", "day", day)
	e.stopEventLocked()
	e.state.IsRunning = true
	e.state.CurrentDay = day
	if err := e.saveStateLocked(ctx.Context()); err != nil {
		e.mu.Unlock()
		return err
	}
	if postNow {
		e.postPuzzleLocked()
	}

	embed := e.infoEmbedLocked()
	var title string
	switch {
	case postNow && e.state.CurrentDay > LastDay:
		title = "Puzzle posted and event is now ending"
	case postNow:
		title = "Puzzle posted and event is now running"
	default:
		title = "Event is now running"
	}
	if e.state.CurrentDay <= LastDay {
		e.startEventLocked()
	}
	e.mu.Unlock()

	embed.Title = title
	embed.Color = bot.ColourBrightGreen
	return ctx.ReplyEmbed(embed)
}

func (e *Extension) stop(ctx *bot.Context) error {
	e.mu.Lock()
	wasRunning := e.stopEventLocked()
	err := e.saveStateLocked(ctx.Context())
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if wasRunning {
		return ctx.Reply("Revival of Code event stopped")
	}
	return ctx.Reply("The Revival of Code event is not currently running")
}

// startEventLocked launches the posting loop. The caller holds e.mu.
func (e *Extension) startEventLocked() {
	slog.Info("starting event",
		"year", e.state.Year,
		"current_day", e.state.CurrentDay,
		"day_interval", e.state.DayInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	go e.run(ctx)
}

// stopEventLocked cancels the posting loop and reports whether it was
// running. The caller holds e.mu.
func (e *Extension) stopEventLocked() bool {
	wasRunning := e.cancel != nil
	if wasRunning {
		e.cancel()
		e.cancel = nil
	}
	e.state.IsRunning = false
	// The start date resets whenever the event is started again.
	e.state.FirstPostDate = nil
	return wasRunning
}

// run waits until the scheduled post time, then posts a puzzle every
// day interval until cancelled or out of days.
func (e *Extension) run(ctx context.Context) {
	e.mu.Lock()
	wait := time.Until(e.state.NextPostTime(time.Now().UTC()))
	interval := time.Duration(e.state.DayInterval) * 24 * time.Hour
	e.mu.Unlock()

	slog.Debug("waiting for the first scheduled post", "wait", wait)
	select {
	case <-ctx.Done():
		return
	case <-time.After(wait):
	}

	e.mu.Lock()
	if e.state.FirstPostDate == nil {
		now := time.Now().UTC()
		e.state.FirstPostDate = &now
	}
	e.postPuzzleLocked()
	running := e.state.IsRunning
	e.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for running {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		e.mu.Lock()
		e.postPuzzleLocked()
		running = e.state.IsRunning
		e.mu.Unlock()
	}
}

// postPuzzleLocked posts the current day's puzzle with a spoiler
// thread and advances the day. The caller holds e.mu.
func (e *Extension) postPuzzleLocked() {
	if e.state.CurrentDay > LastDay {
		slog.Error("attempted to post a puzzle after the last day, stopping event")
		e.stopEventLocked()
		_ = e.saveStateLocked(context.Background())
		return
	}

	slog.Info("posting puzzle", "day", e.state.CurrentDay)
	channelID := e.bot.Config.Channels.SummerAoCMain
	message, err := e.bot.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@&%s>", e.bot.Config.Roles.SummerAoC),
		Embed:   e.puzzleEmbedLocked(),
	})
	if err != nil {
		slog.Error("failed to post puzzle", "day", e.state.CurrentDay, "error", err)
		return
	}
	threadName := fmt.Sprintf("Day %d Spoilers", e.state.CurrentDay)
	if _, err := e.bot.Session.MessageThreadStart(
		channelID, message.ID, threadName, threadArchiveMinutes,
	); err != nil {
		slog.Error("failed to create spoiler thread", "day", e.state.CurrentDay, "error", err)
	}

	e.state.CurrentDay++
	if e.state.CurrentDay > LastDay {
		e.stopEventLocked()
	}
	if err := e.saveStateLocked(context.Background()); err != nil {
		slog.Error("failed to save event state", "error", err)
	}
}

func (e *Extension) infoEmbedLocked() *discordgo.MessageEmbed {
	firstPost := "N/A"
	if e.state.FirstPostDate != nil {
		firstPost = fmt.Sprintf("<t:%d>", e.state.FirstPostDate.Unix())
	}
	nextPost := "N/A"
	if e.state.IsRunning {
		nextPost = fmt.Sprintf("<t:%d>", e.state.NextPostTime(time.Now().UTC()).Unix())
	}
	desc := fmt.Sprintf(
		"is_running: %t\nyear: %d\ncurrent_day: %d\nday_interval: %d\nfirst_post: %s\nnext post: %s\n",
		e.state.IsRunning, e.state.Year, e.state.CurrentDay, e.state.DayInterval, firstPost, nextPost,
	)
	return &discordgo.MessageEmbed{
		Title:       "Revival of Code event state",
		Description: desc,
	}
}

func (e *Extension) puzzleEmbedLocked() *discordgo.MessageEmbed {
	var nextText string
	if e.state.CurrentDay == LastDay {
		realStart := time.Date(time.Now().UTC().Year(), time.December, 1, 5, 0, 0, 0, time.UTC)
		nextText = fmt.Sprintf(lastPuzzleText, realStart.Unix())
	} else {
		nextText = fmt.Sprintf(nextPuzzleText,
			e.state.NextPostTime(time.Now().UTC()).Unix(),
			e.bot.Config.Channels.Roles,
		)
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("**Day %d  (puzzle link)**", e.state.CurrentDay),
		URL:         fmt.Sprintf(aocURLFormat, e.state.Year, e.state.CurrentDay),
		Description: fmt.Sprintf(postText, PublicName, e.bot.Config.Channels.SummerAoCDiscussion, nextText),
		Color:       bot.ColourGold,
	}
}

func (e *Extension) loadState(ctx context.Context) error {
	items, err := e.cache.Items(ctx)
	if err != nil {
		return err
	}

	var state State
	state.IsRunning, _ = strconv.ParseBool(items["is_running"])
	state.Year, _ = strconv.Atoi(items["year"])
	state.CurrentDay, _ = strconv.Atoi(items["current_day"])
	state.DayInterval, _ = strconv.Atoi(items["day_interval"])
	state.PostTime, _ = strconv.Atoi(items["post_time"])
	if raw, ok := items["first_post_date"]; ok && raw != "" {
		firstPost, err := time.Parse(time.RFC3339, raw)
		if err == nil {
			state.FirstPostDate = &firstPost
		}
	}

	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
	slog.Debug("loaded event state", "state", fmt.Sprintf("%+v", state))
	return nil
}

// saveStateLocked persists the state. The caller holds e.mu.
func (e *Extension) saveStateLocked(ctx context.Context) error {
	values := map[string]any{
		"is_running":   e.state.IsRunning,
		"year":         e.state.Year,
		"current_day":  e.state.CurrentDay,
		"day_interval": e.state.DayInterval,
		"post_time":    e.state.PostTime,
	}
	if e.state.FirstPostDate != nil {
		values["first_post_date"] = e.state.FirstPostDate.Format(time.RFC3339)
	} else if err := e.cache.Delete(ctx, "first_post_date"); err != nil {
		return err
	}
	return e.cache.Update(ctx, values)
}
