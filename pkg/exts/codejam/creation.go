package codejam

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	// CategoryName is the name of the code jam team categories.
	CategoryName = "Code Jam"

	// maxChannelsPerCategory is Discord's channel limit per category.
	maxChannelsPerCategory = 50

	// TeamLeaderRoleName is the role shared by all team leaders.
	TeamLeaderRoleName = "Code Jam Team Leaders"

	teamLeadersColour = 0x11806a
)

// TeamMember is one row of the sign up sheet: a participant and
// whether they lead their team.
type TeamMember struct {
	UserID   int64
	IsLeader bool
}

// ParseTeamsCSV reads the team sign up sheet. The file must have the
// columns "Team Name", "Team Member Discord ID" and "Team Leader"
// (marked with Y). Rows are grouped by team name, preserving the order
// teams first appear in.
func ParseTeamsCSV(r io.Reader) (map[string][]TeamMember, []string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Team Name", "Team Member Discord ID", "Team Leader"} {
		if _, ok := columns[required]; !ok {
			return nil, nil, fmt.Errorf("CSV is missing the %q column", required)
		}
	}

	teams := make(map[string][]TeamMember)
	var order []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("malformed CSV row: %w", err)
		}

		name := strings.TrimSpace(row[columns["Team Name"]])
		memberID, err := strconv.ParseInt(strings.TrimSpace(row[columns["Team Member Discord ID"]]), 10, 64)
		if err != nil {
			slog.Debug("skipping row with an invalid member ID", "value", row[columns["Team Member Discord ID"]])
			continue
		}
		if _, ok := teams[name]; !ok {
			order = append(order, name)
		}
		teams[name] = append(teams[name], TeamMember{
			UserID:   memberID,
			IsLeader: strings.EqualFold(strings.TrimSpace(row[columns["Team Leader"]]), "Y"),
		})
	}
	return teams, order, nil
}

// ChannelName converts a team name into its Discord channel form.
func ChannelName(teamName string) string {
	return strings.ToLower(strings.ReplaceAll(teamName, " ", "-"))
}

// TeamName converts a Discord channel name back into the team name as
// the management API knows it.
func TeamName(channelName string) string {
	return strings.ReplaceAll(channelName, "-", " ")
}

// jamCategories returns all code jam team categories in the guild.
func (e *Extension) jamCategories(s *discordgo.Session) []*discordgo.Channel {
	guild, err := s.State.Guild(e.bot.Config.Client.Guild)
	if err != nil {
		return nil
	}
	var categories []*discordgo.Channel
	for _, channel := range guild.Channels {
		if channel.Type == discordgo.ChannelTypeGuildCategory && channel.Name == CategoryName {
			categories = append(categories, channel)
		}
	}
	return categories
}

// categoryChannels returns the guild channels under the given category.
func (e *Extension) categoryChannels(s *discordgo.Session, categoryID string) []*discordgo.Channel {
	guild, err := s.State.Guild(e.bot.Config.Client.Guild)
	if err != nil {
		return nil
	}
	var channels []*discordgo.Channel
	for _, channel := range guild.Channels {
		if channel.ParentID == categoryID {
			channels = append(channels, channel)
		}
	}
	return channels
}

// teamCategory returns a code jam category with room for another
// channel, creating a new one when all existing ones are full.
func (e *Extension) teamCategory(s *discordgo.Session) (*discordgo.Channel, error) {
	for _, category := range e.jamCategories(s) {
		if len(e.categoryChannels(s, category.ID)) < maxChannelsPerCategory {
			return category, nil
		}
	}

	slog.Info("creating a new code jam category")
	guildID := e.bot.Config.Client.Guild
	eventTeamRole := e.bot.Config.Roles.CodeJamEventTeam
	category, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: CategoryName,
		Type: discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
			{ID: eventTeamRole, Type: discordgo.PermissionOverwriteTypeRole, Allow: discordgo.PermissionViewChannel},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create code jam category: %w", err)
	}
	e.sendStatusUpdate(s, fmt.Sprintf(
		"Created a new category with the ID %s for this Code Jam's team channels.", category.ID))
	return category, nil
}

// createTeamRole creates the team's role and hands it out, along with
// the team leader role for the leaders.
func (e *Extension) createTeamRole(
	s *discordgo.Session, teamName string, members []TeamMember, leaderRoleID string,
) (*discordgo.Role, error) {
	guildID := e.bot.Config.Client.Guild
	role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: teamName})
	if err != nil {
		return nil, fmt.Errorf("failed to create role for team %s: %w", teamName, err)
	}

	for _, member := range members {
		memberID := strconv.FormatInt(member.UserID, 10)
		if err := s.GuildMemberRoleAdd(guildID, memberID, role.ID); err != nil {
			slog.Warn("failed to assign team role", "member", memberID, "team", teamName, "error", err)
		}
		if member.IsLeader {
			if err := s.GuildMemberRoleAdd(guildID, memberID, leaderRoleID); err != nil {
				slog.Warn("failed to assign leader role", "member", memberID, "error", err)
			}
		}
	}
	return role, nil
}

// createTeamChannel creates the team's text channel under a code jam
// category.
func (e *Extension) createTeamChannel(
	s *discordgo.Session, teamName string, teamRoleID string,
) (*discordgo.Channel, error) {
	category, err := e.teamCategory(s)
	if err != nil {
		return nil, err
	}

	guildID := e.bot.Config.Client.Guild
	channel, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     ChannelName(teamName),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: category.ID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
			{
				ID:    e.bot.Config.Roles.CodeJamEventTeam,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel,
			},
			{ID: teamRoleID, Type: discordgo.PermissionOverwriteTypeRole, Allow: discordgo.PermissionViewChannel},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create channel for team %s: %w", teamName, err)
	}
	return channel, nil
}

// createTeamLeaderChannel creates the leader chat under the summer code
// jam category.
func (e *Extension) createTeamLeaderChannel(s *discordgo.Session, leaderRoleID string) error {
	guildID := e.bot.Config.Client.Guild
	channel, err := s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     "team-leaders-chat",
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: e.bot.Config.Channels.SummerCodeJam,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
			{ID: leaderRoleID, Type: discordgo.PermissionOverwriteTypeRole, Allow: discordgo.PermissionViewChannel},
			{
				ID:    e.bot.Config.Roles.CodeJamEventTeam,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create the team leader channel: %w", err)
	}
	e.sendStatusUpdate(s, fmt.Sprintf("Created <#%s> in the %s category.", channel.ID, CategoryName))
	return nil
}

// sendStatusUpdate informs the events lead about progress in the
// planning channel.
func (e *Extension) sendStatusUpdate(s *discordgo.Session, message string) {
	content := fmt.Sprintf("<@&%s>\n\n%s", e.bot.Config.Roles.EventsLead, message)
	if _, err := s.ChannelMessageSend(e.bot.Config.Channels.CodeJamPlanning, content); err != nil {
		slog.Warn("failed to send status update", "error", err)
	}
}
