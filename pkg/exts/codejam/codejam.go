// Package codejam manages the code jam related parts of the server:
// team creation from the sign up sheet, announcements, and the
// participant management commands backed by the code jam management
// API.
package codejam

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/python-discord/sir-robin-go/pkg/bot"
	"github.com/python-discord/sir-robin-go/pkg/jamclient"
)

// Extension handles the code jam commands.
type Extension struct {
	bot *bot.Bot
	api *jamclient.Client
}

func New() *Extension {
	return &Extension{}
}

// NewWithClient is used by tests to inject a management API client.
func NewWithClient(api *jamclient.Client) *Extension {
	return &Extension{api: api}
}

func (e *Extension) Name() string {
	return "CodeJams"
}

func (e *Extension) Register(b *bot.Bot) error {
	e.bot = b
	if e.api == nil {
		e.api = jamclient.NewClient(b.Config.Client.CodeJamAPI, b.Config.Client.CodeJamToken, b.HTTP)
	}

	adminsOrLead := bot.WithAnyRole(false, b.Config.Roles.Admins, b.Config.Roles.EventsLead)
	adminsOrEventTeam := bot.WithAnyRole(false, b.Config.Roles.Admins, b.Config.Roles.CodeJamEventTeam)
	jamWide := bot.WithAnyRole(false,
		b.Config.Roles.Admins,
		b.Config.Roles.EventsLead,
		b.Config.Roles.CodeJamEventTeam,
		b.Config.Roles.CodeJamParticipants,
	)
	supportRoles := bot.WithAnyRole(true, b.Config.Roles.Admins, b.Config.Roles.CodeJamEventTeam)
	inJamCategory := bot.InCodeJamCategory(CategoryName)

	group := &bot.Command{
		Name:    "codejam",
		Aliases: []string{"cj", "jam"},
		Help:    "A group of commands for managing Code Jams.",
	}
	group.AddSubcommand(&bot.Command{
		Name:   "create",
		Usage:  "codejam create [csv url]",
		Help:   "Create code jam teams from a CSV file or a link to one, specifying the team names, leaders and members.",
		Checks: []bot.Check{adminsOrLead},
		Run:    e.create,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "announce",
		Help:   "Send the team announcement and post each team's roster in their channel.",
		Checks: []bot.Check{adminsOrLead},
		Run:    e.announce,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "end",
		Help:   "Delete all code jam channels and team roles, and end the jam.",
		Checks: []bot.Check{adminsOrLead},
		Run:    e.end,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "info",
		Usage:  "codejam info <member>",
		Help:   "Send an info embed about the member with the team they're in.",
		Checks: []bot.Check{adminsOrEventTeam},
		Run:    e.info,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "note",
		Usage:  "codejam note <member> <note text>",
		Help:   "Add a note for a code jam participant.",
		Checks: []bot.Check{adminsOrEventTeam},
		Run:    e.addNote,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "notes",
		Usage:  "codejam notes <member>",
		Help:   "View the notes on a code jam participant.",
		Checks: []bot.Check{adminsOrEventTeam},
		Run:    e.viewNotes,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "move",
		Usage:  "codejam move <member> <team name>",
		Help:   "Move a participant from one team to another.",
		Checks: []bot.Check{adminsOrLead},
		Run:    e.move,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "add",
		Usage:  "codejam add <member> [leader] <team name>",
		Help:   "Add a member to the code jam by specifying the team's name, and whether they should be a leader.",
		Checks: []bot.Check{adminsOrLead},
		Run:    e.add,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "remove",
		Usage:  "codejam remove <member>",
		Help:   "Remove the participant from their team. Does not remove the participant or leader roles.",
		Checks: []bot.Check{adminsOrLead},
		Run:    e.remove,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "ping",
		Help:   "Ping the team role for the channel this command is ran in.",
		Checks: []bot.Check{jamWide, inJamCategory},
		Run:    e.pingTeam,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "pin",
		Usage:  "codejam pin [message id]",
		Help:   "Lets code jam participants pin messages in their team channels.",
		Checks: []bot.Check{jamWide, inJamCategory},
		Run:    e.pin,
	})
	group.AddSubcommand(&bot.Command{
		Name:   "unpin",
		Usage:  "codejam unpin [message id]",
		Help:   "Lets code jam participants unpin messages in their team channels.",
		Checks: []bot.Check{jamWide, inJamCategory},
		Run:    e.unpin,
	})

	support := &bot.Command{
		Name:   "support",
		Help:   "Apply or remove the Code Jam Support role.",
		Checks: []bot.Check{supportRoles},
	}
	support.AddSubcommand(&bot.Command{
		Name:   "on",
		Help:   "Add the Code Jam Support role.",
		Checks: []bot.Check{supportRoles},
		Run:    e.supportOn,
	})
	support.AddSubcommand(&bot.Command{
		Name:   "off",
		Help:   "Remove the Code Jam Support role.",
		Checks: []bot.Check{supportRoles},
		Run:    e.supportOff,
	})
	group.AddSubcommand(support)

	b.Router().Register(group)
	return nil
}

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

// memberIDFromArg resolves a user mention or a raw ID.
func memberIDFromArg(arg string) (int64, error) {
	if match := mentionPattern.FindStringSubmatch(arg); match != nil {
		arg = match[1]
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, bot.NewBadArgument("%q doesn't look like a member mention or ID.", arg)
	}
	return id, nil
}

func (e *Extension) supportOn(ctx *bot.Context) error {
	roleID := ctx.Bot.Config.Roles.CodeJamSupport
	if ctx.HasAnyRole(roleID) {
		return ctx.Reply(":question: You already have the role.")
	}
	if err := ctx.Session.GuildMemberRoleAdd(
		ctx.Bot.Config.Client.Guild, ctx.Author().ID, roleID,
	); err != nil {
		return fmt.Errorf("failed to add support role: %w", err)
	}
	return ctx.Replyf("%s Code Jam Support role has been applied.", ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) supportOff(ctx *bot.Context) error {
	roleID := ctx.Bot.Config.Roles.CodeJamSupport
	if !ctx.HasAnyRole(roleID) {
		return ctx.Reply(":question: You don't have the role.")
	}
	if err := ctx.Session.GuildMemberRoleRemove(
		ctx.Bot.Config.Client.Guild, ctx.Author().ID, roleID,
	); err != nil {
		return fmt.Errorf("failed to remove support role: %w", err)
	}
	return ctx.Replyf("%s Code Jam Support role has been removed.", ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) pingTeam(ctx *bot.Context) error {
	channel, err := ctx.Session.State.Channel(ctx.Message.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to resolve channel: %w", err)
	}

	jam, err := e.api.CurrentJam(ctx.Context())
	if err != nil {
		return replyAPIError(ctx, err, ":x: There is no ongoing code jam!")
	}
	// Discord channels have hyphens where the management API has
	// spaces.
	team, err := e.api.FindTeam(ctx.Context(), TeamName(channel.Name), jam.ID)
	if err != nil {
		return replyAPIError(ctx, err, "Failed to find team role id in database.")
	}
	return ctx.Replyf("<@&%d>", team.DiscordRoleID)
}

func (e *Extension) pin(ctx *bot.Context) error {
	return e.togglePin(ctx, false)
}

func (e *Extension) unpin(ctx *bot.Context) error {
	return e.togglePin(ctx, true)
}

// togglePin pins or unpins a message in a team channel. Participants
// may only manage pins in their own team channel; admins and the event
// team can do so anywhere in the jam categories.
func (e *Extension) togglePin(ctx *bot.Context, unpin bool) error {
	messageID := ""
	switch {
	case len(ctx.Args) == 1:
		messageID = ctx.Args[0]
	case ctx.Message.MessageReference != nil:
		messageID = ctx.Message.MessageReference.MessageID
	default:
		return bot.NewBadArgument("Reply to the message to pin, or pass its ID.")
	}

	elevated := ctx.HasAnyRole(ctx.Bot.Config.Roles.Admins, ctx.Bot.Config.Roles.CodeJamEventTeam)
	if !elevated {
		team, err := e.api.CurrentTeam(ctx.Context(), mustParseID(ctx.Author().ID))
		if err != nil {
			return replyAPIError(ctx, err, ":x: It seems like you are not a participant!")
		}
		if strconv.FormatInt(team.Team.DiscordChannelID, 10) != ctx.Message.ChannelID {
			return ctx.Reply(":x: You can only manage pins in your own team channel.")
		}
	}

	var err error
	if unpin {
		err = ctx.Session.ChannelMessageUnpin(ctx.Message.ChannelID, messageID)
	} else {
		err = ctx.Session.ChannelMessagePin(ctx.Message.ChannelID, messageID)
	}
	if err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	return ctx.React(ctx.Bot.Config.Emojis.CheckMark)
}

func mustParseID(id string) int64 {
	parsed, _ := strconv.ParseInt(id, 10, 64)
	return parsed
}

// replyAPIError answers a failed management API call: 404s get the
// given message, anything else a generic apology. The original error
// is returned for logging unless it was handled as a 404.
func replyAPIError(ctx *bot.Context, err error, notFoundMessage string) error {
	if jamclient.IsStatus(err, 404) {
		return ctx.Reply(notFoundMessage)
	}
	_ = ctx.Reply("Something went wrong while processing the request! We have notified the team!")
	return err
}

func (e *Extension) info(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Provide the member to look up.")
	}
	memberID, err := memberIDFromArg(ctx.Args[0])
	if err != nil {
		return err
	}

	team, err := e.api.CurrentTeam(ctx.Context(), memberID)
	if err != nil {
		return replyAPIError(ctx, err, ":x: It seems like the user is not a participant!")
	}

	isLeader := "No"
	for _, user := range team.Team.Users {
		if user.UserID == memberID && user.IsLeader {
			isLeader = "Yes"
			break
		}
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title: fmt.Sprintf("<@%d>", memberID),
		Color: bot.ColourBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Team", Value: team.Team.Name, Inline: true},
			{Name: "Team leader", Value: isLeader, Inline: true},
		},
	})
}

func (e *Extension) addNote(ctx *bot.Context) error {
	if len(ctx.Args) < 2 {
		return bot.NewBadArgument("Provide the member and the note text.")
	}
	memberID, err := memberIDFromArg(ctx.Args[0])
	if err != nil {
		return err
	}
	reason := joinArgs(ctx.Args[1:])

	team, err := e.api.CurrentTeam(ctx.Context(), memberID)
	if err != nil {
		return replyAPIError(ctx, err, ":x: The user could not be found.")
	}

	_, err = e.api.CreateInfraction(ctx.Context(), jamclient.InfractionRequest{
		UserID:         memberID,
		JamID:          team.Team.JamID,
		Reason:         reason,
		InfractionType: "note",
	})
	if err != nil {
		return replyAPIError(ctx, err, ":x: The user could not be found!")
	}
	return ctx.Reply("Your note has been saved!")
}

func (e *Extension) viewNotes(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Provide the member to look up.")
	}
	memberID, err := memberIDFromArg(ctx.Args[0])
	if err != nil {
		return err
	}

	infractions, err := e.api.Infractions(ctx.Context())
	if err != nil {
		return replyAPIError(ctx, err, ":x: The user could not be found.")
	}

	embed := &discordgo.MessageEmbed{
		Title: "Notes",
		Color: bot.ColourSoftOrange,
	}
	for _, infraction := range infractions {
		if infraction.UserID != memberID {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Jam - (ID: %d)", infraction.JamID),
			Value: infraction.Reason,
		})
		if len(embed.Fields) == 25 {
			break
		}
	}
	if len(embed.Fields) == 0 {
		return ctx.Replyf(":x: <@%d> doesn't have any notes yet.", memberID)
	}
	return ctx.ReplyEmbed(embed)
}
