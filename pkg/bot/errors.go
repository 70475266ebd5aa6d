package bot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// CheckFailure is returned by a failing command check. Silent failures
// are logged without giving the invoker any feedback.
type CheckFailure struct {
	Message string
	Silent  bool
}

func (e *CheckFailure) Error() string {
	return e.Message
}

// NewCheckFailure returns a loud check failure with the given message.
func NewCheckFailure(format string, args ...any) *CheckFailure {
	return &CheckFailure{Message: fmt.Sprintf(format, args...)}
}

// NewSilentCheckFailure returns a check failure that produces no reply.
func NewSilentCheckFailure(format string, args ...any) *CheckFailure {
	return &CheckFailure{Message: fmt.Sprintf(format, args...), Silent: true}
}

// BadArgument signals that a command was invoked with unusable input.
type BadArgument struct {
	Message string
}

func (e *BadArgument) Error() string {
	return e.Message
}

// NewBadArgument returns a BadArgument with the given message.
func NewBadArgument(format string, args ...any) *BadArgument {
	return &BadArgument{Message: fmt.Sprintf(format, args...)}
}

// HandleCommandError renders a command error back to the invoker.
// Check failures and bad arguments become red embeds; anything else is
// logged and answered with a generic apology.
func HandleCommandError(ctx *Context, err error) {
	var checkFailure *CheckFailure
	if errors.As(err, &checkFailure) {
		if checkFailure.Silent {
			slog.Info("silent check failure",
				"command", ctx.Command.Name,
				"author", ctx.Author().ID,
				"reason", checkFailure.Message,
			)
			return
		}
		replyError(ctx, "Check failed", checkFailure.Message)
		return
	}

	var badArgument *BadArgument
	if errors.As(err, &badArgument) {
		description := badArgument.Message
		if ctx.Command.Usage != "" {
			description += fmt.Sprintf("\n\nUsage: `%s%s`", ctx.Bot.Config.Client.Prefix, ctx.Command.Usage)
		}
		replyError(ctx, "Bad argument", description)
		return
	}

	slog.Error("unhandled command error",
		"command", ctx.Command.Name,
		"author", ctx.Author().ID,
		"error", err,
	)
	replyError(ctx, "Something went wrong", "An unexpected error occurred. The incident has been logged.")
}

func replyError(ctx *Context, title, description string) {
	_ = ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColourSoftRed,
	})
}
