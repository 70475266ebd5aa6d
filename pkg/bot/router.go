package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/python-discord/sir-robin-go/pkg/metrics"
)

// Command is a prefix command. A command with subcommands acts as a
// group: invoking it without a known subcommand runs its own handler,
// or prints help when it has none.
type Command struct {
	Name    string
	Aliases []string
	Help    string
	Usage   string
	Checks  []Check
	Run     func(ctx *Context) error

	subcommands map[string]*Command
}

// AddSubcommand attaches a subcommand to a group command.
func (c *Command) AddSubcommand(sub *Command) *Command {
	if c.subcommands == nil {
		c.subcommands = make(map[string]*Command)
	}
	c.subcommands[sub.Name] = sub
	for _, alias := range sub.Aliases {
		c.subcommands[alias] = sub
	}
	return c
}

// Context carries everything a command handler needs for one invocation.
type Context struct {
	Bot     *Bot
	Session *discordgo.Session
	Message *discordgo.Message
	Command *Command
	Args    []string

	ctx context.Context
}

// Context returns the invocation's context.Context.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Author returns the invoking user.
func (c *Context) Author() *discordgo.User {
	return c.Message.Author
}

// Reply sends plain text to the invoking channel.
func (c *Context) Reply(content string) error {
	_, err := c.Session.ChannelMessageSend(c.Message.ChannelID, content)
	return err
}

// Replyf formats and sends plain text to the invoking channel.
func (c *Context) Replyf(format string, args ...any) error {
	return c.Reply(fmt.Sprintf(format, args...))
}

// ReplyEmbed sends an embed to the invoking channel.
func (c *Context) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	_, err := c.Session.ChannelMessageSendEmbed(c.Message.ChannelID, embed)
	return err
}

// React adds a reaction to the invoking message.
func (c *Context) React(emoji string) error {
	return c.Session.MessageReactionAdd(c.Message.ChannelID, c.Message.ID, emoji)
}

// Member returns the invoking guild member, falling back to a REST
// lookup when the member is missing from the message.
func (c *Context) Member() (*discordgo.Member, error) {
	if c.Message.Member != nil {
		member := c.Message.Member
		if member.User == nil {
			member.User = c.Message.Author
		}
		return member, nil
	}
	return c.Session.GuildMember(c.Bot.Config.Client.Guild, c.Message.Author.ID)
}

// HasAnyRole reports whether the invoking member has one of the roles.
func (c *Context) HasAnyRole(roleIDs ...string) bool {
	member, err := c.Member()
	if err != nil {
		return false
	}
	for _, have := range member.Roles {
		for _, want := range roleIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Router parses prefixed messages and dispatches them to commands.
type Router struct {
	bot      *Bot
	commands map[string]*Command
}

// NewRouter returns an empty router for the bot.
func NewRouter(b *Bot) *Router {
	return &Router{bot: b, commands: make(map[string]*Command)}
}

// Register adds a top-level command.
func (r *Router) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.commands[alias] = cmd
	}
}

// Lookup finds a top-level command by name or alias.
func (r *Router) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Dispatch is the MESSAGE_CREATE handler. It resolves the invoked
// command, runs its checks and executes it.
func (r *Router) Dispatch(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	prefix := r.bot.Config.Client.Prefix
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(fields) == 0 {
		return
	}

	cmd, ok := r.commands[strings.ToLower(fields[0])]
	if !ok {
		return
	}
	args := fields[1:]

	// Descend into subcommands as long as the next token matches one.
	for len(args) > 0 && cmd.subcommands != nil {
		sub, ok := cmd.subcommands[strings.ToLower(args[0])]
		if !ok {
			break
		}
		cmd = sub
		args = args[1:]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	invocation := &Context{
		Bot:     r.bot,
		Session: s,
		Message: m.Message,
		Command: cmd,
		Args:    args,
		ctx:     ctx,
	}

	for _, check := range cmd.Checks {
		if err := check(invocation); err != nil {
			r.handleError(invocation, err)
			return
		}
	}

	if cmd.Run == nil {
		r.replyHelp(invocation, cmd)
		return
	}

	metrics.CommandsTotal.WithLabelValues(cmd.Name).Inc()
	if err := cmd.Run(invocation); err != nil {
		r.handleError(invocation, err)
	}
}

func (r *Router) replyHelp(ctx *Context, cmd *Command) {
	var sb strings.Builder
	sb.WriteString(cmd.Help)
	if cmd.Usage != "" {
		sb.WriteString("\n\nUsage: `")
		sb.WriteString(r.bot.Config.Client.Prefix)
		sb.WriteString(cmd.Usage)
		sb.WriteString("`")
	}
	_ = ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       cmd.Name,
		Description: sb.String(),
		Color:       ColourBlue,
	})
}

func (r *Router) handleError(ctx *Context, err error) {
	metrics.CommandErrorsTotal.WithLabelValues(ctx.Command.Name).Inc()
	HandleCommandError(ctx, err)
	slog.Debug("command finished with error",
		"command", ctx.Command.Name,
		"author", ctx.Author().ID,
		"error", err,
	)
}
