package games

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/python-discord/sir-robin-go/pkg/bot"
)

func (e *Extension) registerCommands(b *bot.Bot) {
	elevated := bot.WithAnyRole(false, e.elevatedRoles()...)
	inBotCommands := bot.InWhitelist(nil, b.Config.Channels.BotCommands, false)

	group := &bot.Command{
		Name: "games",
		Help: "The games command group.",
	}
	group.AddSubcommand(&bot.Command{
		Name:    "join",
		Aliases: []string{"assign"},
		Help:    "Let the sorting hat decide the team you shall join!",
		Checks:  []bot.Check{inBotCommands},
		Run:     e.join,
	})
	group.AddSubcommand(&bot.Command{
		Name:    "scores",
		Aliases: []string{"score", "points", "leaderboard", "lb"},
		Help:    "The current leaderboard of points for each team.",
		Checks:  []bot.Check{inBotCommands},
		Run:     e.scores,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "on",
		Help:   "Turn on the games.",
		Checks: []bot.Check{elevated},
		Run:    e.turnOn,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "off",
		Help:   "Turn off the games.",
		Checks: []bot.Check{elevated},
		Run:    e.turnOff,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "set_interval",
		Usage:  "games set_interval <min seconds> <max seconds>",
		Help:   "Set the minimum and maximum time between team games.",
		Checks: []bot.Check{elevated},
		Run:    e.setInterval,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "set_probability",
		Usage:  "games set_probability <probability>",
		Help:   "Set the probability of a super game happening.",
		Checks: []bot.Check{elevated},
		Run:    e.setProbability,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "set_uptime",
		Usage:  "games set_uptime <seconds>",
		Help:   "Set how long the team game reaction stays up.",
		Checks: []bot.Check{elevated},
		Run:    e.setUptime,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "status",
		Help:   "The current settings of the games.",
		Checks: []bot.Check{elevated},
		Run:    e.status,
	})

	b.Router().Register(group)
}

// join assigns the invoker to the team with the fewest members.
func (e *Extension) join(ctx *bot.Context) error {
	member, err := ctx.Member()
	if err != nil {
		return fmt.Errorf("failed to resolve member: %w", err)
	}
	for _, roleID := range e.roles {
		if contains(member.Roles, roleID) {
			return ctx.Reply("You're already assigned to a team!")
		}
	}

	team := e.teamWithFewestMembers(ctx.Session)
	if err := ctx.Session.GuildMemberRoleAdd(
		ctx.Bot.Config.Client.Guild, ctx.Author().ID, e.roles[team],
	); err != nil {
		return fmt.Errorf("failed to assign team role: %w", err)
	}

	adjectives := teamAdjectives[team]
	adjective := adjectives[e.rand.Intn(len(adjectives))]
	return ctx.Replyf("You seem to be extremely %s. You shall be assigned to... the %s team!", adjective, team)
}

// teamWithFewestMembers counts team role holders in the guild state.
func (e *Extension) teamWithFewestMembers(s *discordgo.Session) string {
	counts := make(map[string]int, len(e.teams))
	for _, team := range e.teams {
		counts[team.Name] = 0
	}

	guild, err := s.State.Guild(e.bot.Config.Client.Guild)
	if err == nil {
		for _, member := range guild.Members {
			for _, team := range e.teams {
				if contains(member.Roles, e.roles[team.Name]) {
					counts[team.Name]++
				}
			}
		}
	}

	fewest := e.teams[0].Name
	for _, team := range e.teams[1:] {
		if counts[team.Name] < counts[fewest] {
			fewest = team.Name
		}
	}
	return fewest
}

func (e *Extension) scores(ctx *bot.Context) error {
	type teamScore struct {
		team   Team
		points int64
	}
	scores := make([]teamScore, 0, len(e.teams))
	for _, team := range e.teams {
		points, err := e.points.GetInt(ctx.Context(), team.Name)
		if err != nil {
			points = 0
		}
		scores = append(scores, teamScore{team, points})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].points > scores[j].points })

	var sb strings.Builder
	for _, score := range scores {
		fmt.Fprintf(&sb, "%s **%s**: %d\n", score.team.Emoji, score.team.Name, score.points)
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "Current team points",
		Description: sb.String(),
		Color:       bot.ColourPythonBlue,
	})
}

func (e *Extension) turnOn(ctx *bot.Context) error {
	if err := e.isOn.Set(ctx.Context(), "value", true); err != nil {
		return fmt.Errorf("failed to turn the games on: %w", err)
	}
	return ctx.React(ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) turnOff(ctx *bot.Context) error {
	if err := e.isOn.Set(ctx.Context(), "value", false); err != nil {
		return fmt.Errorf("failed to turn the games off: %w", err)
	}
	return ctx.React(ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) setInterval(ctx *bot.Context) error {
	if len(ctx.Args) != 2 {
		return bot.NewBadArgument("Provide a minimum and maximum interval in seconds.")
	}
	reactionMin, err := strconv.ParseInt(ctx.Args[0], 10, 64)
	if err != nil {
		return bot.NewBadArgument("The minimum interval must be a whole number of seconds.")
	}
	reactionMax, err := strconv.ParseInt(ctx.Args[1], 10, 64)
	if err != nil {
		return bot.NewBadArgument("The maximum interval must be a whole number of seconds.")
	}

	if reactionMin > reactionMax {
		return bot.NewBadArgument("The minimum interval can't be longer than the maximum interval.")
	}
	if uptime := e.settingInt(ctx.Context(), "game_uptime", 15); reactionMin < uptime {
		return bot.NewBadArgument(
			"The minimum interval can't be shorter than the game uptime (currently %d seconds).", uptime)
	}

	if err := e.settings.Update(ctx.Context(), map[string]any{
		"reaction_min": reactionMin,
		"reaction_max": reactionMax,
	}); err != nil {
		return fmt.Errorf("failed to update interval settings: %w", err)
	}
	if err := e.setReactionTime(ctx.Context()); err != nil {
		return fmt.Errorf("failed to reschedule the next game: %w", err)
	}
	return ctx.React(ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) setProbability(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Provide the probability of a super game, between 0 and 1.")
	}
	probability, err := strconv.ParseFloat(ctx.Args[0], 64)
	if err != nil || probability < 0 || probability > 1 {
		return bot.NewBadArgument("The probability must be a number between 0 and 1.")
	}

	if err := e.settings.Set(ctx.Context(), "ducky_probability", probability); err != nil {
		return fmt.Errorf("failed to update the super game probability: %w", err)
	}
	return ctx.React(ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) setUptime(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Provide the game uptime in seconds.")
	}
	uptime, err := strconv.ParseInt(ctx.Args[0], 10, 64)
	if err != nil || uptime <= 0 {
		return bot.NewBadArgument("The uptime must be a positive number of seconds.")
	}
	if reactionMin := e.settingInt(ctx.Context(), "reaction_min", 30); uptime > reactionMin {
		return bot.NewBadArgument(
			"The uptime can't be longer than the minimum interval between games (currently %d seconds).",
			reactionMin)
	}

	if err := e.settings.Set(ctx.Context(), "game_uptime", uptime); err != nil {
		return fmt.Errorf("failed to update the game uptime: %w", err)
	}
	return ctx.React(ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) status(ctx *bot.Context) error {
	on, err := e.isOn.GetBool(ctx.Context(), "value")
	if err != nil {
		on = false
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Is on", Value: strconv.FormatBool(on), Inline: true},
		{
			Name:   "Min reaction time",
			Value:  (time.Duration(e.settingInt(ctx.Context(), "reaction_min", 30)) * time.Second).String(),
			Inline: true,
		},
		{
			Name:   "Max reaction time",
			Value:  (time.Duration(e.settingInt(ctx.Context(), "reaction_max", 120)) * time.Second).String(),
			Inline: true,
		},
		{
			Name:   "Ducky probability",
			Value:  strconv.FormatFloat(e.settingFloat(ctx.Context(), "ducky_probability", 0.25), 'g', -1, 64),
			Inline: true,
		},
		{
			Name:   "Game uptime",
			Value:  (time.Duration(e.settingInt(ctx.Context(), "game_uptime", 15)) * time.Second).String(),
			Inline: true,
		},
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:  "Games status",
		Color:  bot.ColourPythonBlue,
		Fields: fields,
	})
}
