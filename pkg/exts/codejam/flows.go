package codejam

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/python-discord/sir-robin-go/pkg/bot"
	"github.com/python-discord/sir-robin-go/pkg/jamclient"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// fetchCSV downloads the sign up sheet, either from a link given as an
// argument or from a file attached to the message.
func (e *Extension) fetchCSV(ctx *bot.Context) (string, error) {
	var url string
	switch {
	case len(ctx.Args) == 1:
		url = ctx.Args[0]
	case len(ctx.Message.Attachments) == 1:
		url = ctx.Message.Attachments[0].URL
	default:
		return "", bot.NewBadArgument("You must include either a CSV file or a link to one.")
	}

	req, err := http.NewRequestWithContext(ctx.Context(), http.MethodGet, url, nil)
	if err != nil {
		return "", bot.NewBadArgument("That doesn't look like a valid link.")
	}
	resp, err := e.bot.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download the CSV: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d while downloading the CSV", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read the CSV: %w", err)
	}
	return string(raw), nil
}

func (e *Extension) create(ctx *bot.Context) error {
	contents, err := e.fetchCSV(ctx)
	if err != nil {
		return err
	}
	teams, order, err := ParseTeamsCSV(strings.NewReader(contents))
	if err != nil {
		return bot.NewBadArgument("Could not parse the sign up sheet: %v", err)
	}
	if len(order) == 0 {
		return bot.NewBadArgument("The sign up sheet doesn't contain any teams.")
	}

	if err := ctx.Replyf("Creating the jam with %d teams, this may take a while...", len(order)); err != nil {
		return err
	}

	leaderRole, err := e.leaderRole(ctx.Session)
	if err != nil {
		return err
	}
	if err := e.createTeamLeaderChannel(ctx.Session, leaderRole.ID); err != nil {
		return err
	}

	requests := make([]jamclient.TeamRequest, 0, len(order))
	for _, teamName := range order {
		members := teams[teamName]
		role, err := e.createTeamRole(ctx.Session, teamName, members, leaderRole.ID)
		if err != nil {
			return err
		}
		channel, err := e.createTeamChannel(ctx.Session, teamName, role.ID)
		if err != nil {
			return err
		}

		users := make([]jamclient.TeamMemberRequest, 0, len(members))
		for _, member := range members {
			users = append(users, jamclient.TeamMemberRequest{
				UserID:   member.UserID,
				IsLeader: member.IsLeader,
			})
		}
		requests = append(requests, jamclient.TeamRequest{
			Name:             teamName,
			DiscordRoleID:    mustParseID(role.ID),
			DiscordChannelID: mustParseID(channel.ID),
			Users:            users,
		})
	}

	jam, err := e.api.CreateJam(ctx.Context(), jamclient.JamRequest{
		Name:    fmt.Sprintf("Summer Code Jam %d", time.Now().Year()),
		Ongoing: true,
		Teams:   requests,
	})
	if err != nil {
		return replyAPIError(ctx, err, ":x: The management API rejected the jam.")
	}

	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title: "Success!",
		Color: bot.ColourSoftGreen,
		Description: fmt.Sprintf(
			"Created **%s** with %d teams.\nRun `codejam announce` to notify the participants.",
			jam.Name, len(jam.Teams),
		),
	})
}

// leaderRole returns the shared team leader role, creating it when it
// doesn't exist yet.
func (e *Extension) leaderRole(s *discordgo.Session) (*discordgo.Role, error) {
	if role := e.roleByName(s, TeamLeaderRoleName); role != nil {
		return role, nil
	}
	colour := teamLeadersColour
	role, err := s.GuildRoleCreate(e.bot.Config.Client.Guild, &discordgo.RoleParams{
		Name:  TeamLeaderRoleName,
		Color: &colour,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create the team leader role: %w", err)
	}
	return role, nil
}

func (e *Extension) roleByName(s *discordgo.Session, name string) *discordgo.Role {
	guild, err := s.State.Guild(e.bot.Config.Client.Guild)
	if err != nil {
		return nil
	}
	for _, role := range guild.Roles {
		if role.Name == name {
			return role
		}
	}
	return nil
}

func (e *Extension) announce(ctx *bot.Context) error {
	teams, err := e.api.Teams(ctx.Context(), true)
	if err != nil {
		return replyAPIError(ctx, err, ":x: There is no ongoing code jam!")
	}

	announcement := fmt.Sprintf(
		"<@&%s>! You have been sorted into a team!", ctx.Bot.Config.Roles.CodeJamParticipants)
	_, err = ctx.Session.ChannelMessageSendComplex(
		ctx.Bot.Config.Channels.SummerCodeJamAnnouncements,
		&discordgo.MessageSend{
			Content: announcement,
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeRoles},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to send the announcement: %w", err)
	}

	for _, team := range teams {
		roster := make([]string, 0, len(team.Users)+2)
		roster = append(roster, fmt.Sprintf("Your team is **%s**!", team.Name), "Team members:")
		for _, user := range team.Users {
			line := fmt.Sprintf("- <@%d>", user.UserID)
			if user.IsLeader {
				line += " (Team Leader)"
			}
			roster = append(roster, line)
		}
		channelID := strconv.FormatInt(team.DiscordChannelID, 10)
		if _, err := ctx.Session.ChannelMessageSend(channelID, strings.Join(roster, "\n")); err != nil {
			slog.Warn("failed to send a team roster", "team", team.Name, "error", err)
		}
	}

	return ctx.React(ctx.Bot.Config.Emojis.CheckMark)
}

func (e *Extension) end(ctx *bot.Context) error {
	jam, err := e.api.CurrentJam(ctx.Context())
	if err != nil {
		return replyAPIError(ctx, err, ":x: There is no ongoing code jam!")
	}
	teams, err := e.api.Teams(ctx.Context(), true)
	if err != nil {
		return replyAPIError(ctx, err, ":x: There is no ongoing code jam!")
	}

	if err := ctx.Reply("Ending the jam, this may take a while..."); err != nil {
		return err
	}

	// Record everything about to be deleted so the cleanup can be
	// audited afterwards.
	var details strings.Builder
	fmt.Fprintf(&details, "Cleanup for %s\n\n", jam.Name)

	guildID := ctx.Bot.Config.Client.Guild
	for _, category := range e.jamCategories(ctx.Session) {
		fmt.Fprintf(&details, "Category %s (%s)\n", category.Name, category.ID)
		for _, channel := range e.categoryChannels(ctx.Session, category.ID) {
			fmt.Fprintf(&details, "  Channel %s (%s)\n", channel.Name, channel.ID)
			if _, err := ctx.Session.ChannelDelete(channel.ID); err != nil {
				slog.Warn("failed to delete a team channel", "channel", channel.ID, "error", err)
			}
		}
		if _, err := ctx.Session.ChannelDelete(category.ID); err != nil {
			slog.Warn("failed to delete a jam category", "category", category.ID, "error", err)
		}
	}

	for _, team := range teams {
		roleID := strconv.FormatInt(team.DiscordRoleID, 10)
		fmt.Fprintf(&details, "Role %s (%s)\n", team.Name, roleID)
		if err := ctx.Session.GuildRoleDelete(guildID, roleID); err != nil {
			slog.Warn("failed to delete a team role", "role", roleID, "error", err)
		}
	}
	if leaderRole := e.roleByName(ctx.Session, TeamLeaderRoleName); leaderRole != nil {
		fmt.Fprintf(&details, "Role %s (%s)\n", leaderRole.Name, leaderRole.ID)
		if err := ctx.Session.GuildRoleDelete(guildID, leaderRole.ID); err != nil {
			slog.Warn("failed to delete the team leader role", "error", err)
		}
	}

	if _, err := e.api.EndJam(ctx.Context(), jam.ID); err != nil {
		return replyAPIError(ctx, err, ":x: There is no ongoing code jam!")
	}

	message := "The Code Jam has officially ended! :sunrise:"
	pasteURL, pasteErr := e.bot.Paste.Upload(ctx.Context(), details.String(), "txt")
	if pasteErr != nil {
		slog.Warn("failed to upload the cleanup details", "error", pasteErr)
	} else {
		message += fmt.Sprintf("\nCleanup details: %s", pasteURL)
	}
	return ctx.Reply(message)
}

func (e *Extension) move(ctx *bot.Context) error {
	if len(ctx.Args) < 2 {
		return bot.NewBadArgument("Provide the member and the new team's name.")
	}
	memberID, err := memberIDFromArg(ctx.Args[0])
	if err != nil {
		return err
	}
	teamName := joinArgs(ctx.Args[1:])

	current, err := e.api.CurrentTeam(ctx.Context(), memberID)
	if err != nil {
		return replyAPIError(ctx, err, ":x: It seems like the user is not a participant!")
	}

	jam, err := e.api.CurrentJam(ctx.Context())
	if err != nil {
		return replyAPIError(ctx, err, ":x: There is no ongoing code jam!")
	}
	newTeam, err := e.api.FindTeam(ctx.Context(), teamName, jam.ID)
	if err != nil {
		return replyAPIError(ctx, err,
			fmt.Sprintf(":x: Team `%s` does not exist in the current jam!", teamName))
	}
	if newTeam.ID == current.Team.ID {
		return ctx.Replyf(":x: user <@%d> is already in %s", memberID, newTeam.Name)
	}

	isLeader := false
	for _, user := range current.Team.Users {
		if user.UserID == memberID {
			isLeader = user.IsLeader
			break
		}
	}

	if err := e.api.RemoveTeamMember(ctx.Context(), current.Team.ID, memberID); err != nil {
		return replyAPIError(ctx, err,
			":x: The member given is not part of the team! (Might have been removed already)")
	}
	e.swapTeamRole(ctx.Session, memberID, &current.Team, nil)

	if err := e.api.AddTeamMember(ctx.Context(), newTeam.ID, memberID, isLeader); err != nil {
		return replyAPIError(ctx, err, ":x: Team or user could not be found!")
	}
	e.swapTeamRole(ctx.Session, memberID, nil, newTeam)

	return ctx.Replyf(
		"Success! Participant <@%d> has been moved from %s to %s",
		memberID, current.Team.Name, newTeam.Name,
	)
}

func (e *Extension) add(ctx *bot.Context) error {
	if len(ctx.Args) < 2 {
		return bot.NewBadArgument("Provide the member, optionally `leader`, and the team's name.")
	}
	memberID, err := memberIDFromArg(ctx.Args[0])
	if err != nil {
		return err
	}
	rest := ctx.Args[1:]
	isLeader := false
	if strings.EqualFold(rest[0], "leader") {
		isLeader = true
		rest = rest[1:]
	}
	teamName := joinArgs(rest)
	if teamName == "" {
		return bot.NewBadArgument("Provide the team's name.")
	}

	jam, err := e.api.CurrentJam(ctx.Context())
	if err != nil {
		return replyAPIError(ctx, err, ":x: There is no ongoing code jam!")
	}
	team, err := e.api.FindTeam(ctx.Context(), teamName, jam.ID)
	if err != nil {
		return replyAPIError(ctx, err,
			fmt.Sprintf(":x: Team `%s` does not exist in the current jam!", teamName))
	}
	for _, user := range team.Users {
		if user.UserID == memberID {
			return ctx.Replyf(":x: user <@%d> is already in %s", memberID, team.Name)
		}
	}

	if err := e.api.AddTeamMember(ctx.Context(), team.ID, memberID, isLeader); err != nil {
		return replyAPIError(ctx, err, ":x: Team or user could not be found!")
	}
	e.swapTeamRole(ctx.Session, memberID, nil, team)
	if isLeader {
		if role := e.roleByName(ctx.Session, TeamLeaderRoleName); role != nil {
			if err := ctx.Session.GuildMemberRoleAdd(
				ctx.Bot.Config.Client.Guild, strconv.FormatInt(memberID, 10), role.ID,
			); err != nil {
				slog.Warn("failed to assign the leader role", "member", memberID, "error", err)
			}
		}
	}

	return ctx.Replyf("Success! Participant <@%d> has been added to %s", memberID, team.Name)
}

func (e *Extension) remove(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Provide the member to remove.")
	}
	memberID, err := memberIDFromArg(ctx.Args[0])
	if err != nil {
		return err
	}

	current, err := e.api.CurrentTeam(ctx.Context(), memberID)
	if err != nil {
		return replyAPIError(ctx, err, ":x: It seems like the user is not a participant!")
	}
	if err := e.api.RemoveTeamMember(ctx.Context(), current.Team.ID, memberID); err != nil {
		return replyAPIError(ctx, err,
			":x: The member given is not part of the team! (Might have been removed already)")
	}

	e.swapTeamRole(ctx.Session, memberID, &current.Team, nil)
	if role := e.roleByName(ctx.Session, TeamLeaderRoleName); role != nil {
		if err := ctx.Session.GuildMemberRoleRemove(
			ctx.Bot.Config.Client.Guild, strconv.FormatInt(memberID, 10), role.ID,
		); err != nil {
			slog.Debug("failed to remove the leader role", "member", memberID, "error", err)
		}
	}

	return ctx.Replyf("Successfully removed <@%d> from team %s", memberID, current.Team.Name)
}

// swapTeamRole removes the old team's role and adds the new one.
// Either side may be nil. Role failures are logged rather than
// surfaced; the management API is the source of truth.
func (e *Extension) swapTeamRole(s *discordgo.Session, memberID int64, oldTeam, newTeam *model.Team) {
	guildID := e.bot.Config.Client.Guild
	member := strconv.FormatInt(memberID, 10)
	if oldTeam != nil {
		roleID := strconv.FormatInt(oldTeam.DiscordRoleID, 10)
		if err := s.GuildMemberRoleRemove(guildID, member, roleID); err != nil {
			slog.Warn("failed to remove a team role", "member", member, "team", oldTeam.Name, "error", err)
		}
	}
	if newTeam != nil {
		roleID := strconv.FormatInt(newTeam.DiscordRoleID, 10)
		if err := s.GuildMemberRoleAdd(guildID, member, roleID); err != nil {
			slog.Warn("failed to add a team role", "member", member, "team", newTeam.Name, "error", err)
		}
	}
}
