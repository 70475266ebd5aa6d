package bot

import (
	"fmt"
	"strings"
	"time"
)

// Check gates a command invocation. A non-nil error blocks the command;
// return a CheckFailure to control what the invoker sees.
type Check func(ctx *Context) error

// WithAnyRole requires one of the given roles. With failSilently the
// invoker gets no feedback, matching how staff-only commands hide
// themselves.
func WithAnyRole(failSilently bool, roleIDs ...string) Check {
	return func(ctx *Context) error {
		if ctx.HasAnyRole(roleIDs...) {
			return nil
		}
		if failSilently {
			return NewSilentCheckFailure("missing required role for %s", ctx.Command.Name)
		}
		return NewCheckFailure("You do not have the required role to use this command.")
	}
}

// InWhitelist requires the command to be invoked in one of the given
// channels. The redirect channel is always allowed and is named in the
// failure message.
func InWhitelist(channelIDs []string, redirect string, failSilently bool) Check {
	allowed := make(map[string]bool, len(channelIDs)+1)
	for _, id := range channelIDs {
		allowed[id] = true
	}
	if redirect != "" {
		allowed[redirect] = true
	}

	return func(ctx *Context) error {
		if allowed[ctx.Message.ChannelID] {
			return nil
		}
		if failSilently {
			return NewSilentCheckFailure("%s used outside whitelisted channels", ctx.Command.Name)
		}
		if redirect != "" {
			return NewCheckFailure("You are not allowed to use that command here. Please use the <#%s> channel instead.", redirect)
		}
		return NewCheckFailure("You are not allowed to use that command here.")
	}
}

// InMonth limits a command to the given months, for seasonal events.
func InMonth(months ...time.Month) Check {
	return func(ctx *Context) error {
		now := time.Now().UTC().Month()
		for _, month := range months {
			if now == month {
				return nil
			}
		}
		names := make([]string, len(months))
		for i, month := range months {
			names[i] = month.String()
		}
		return NewCheckFailure(
			"The `%s` command can only be used in %s.",
			ctx.Command.Name, strings.Join(names, ", "),
		)
	}
}

// InCodeJamCategory requires the invoking channel to live under a
// category with the given name. Fails silently so team commands stay
// invisible elsewhere.
func InCodeJamCategory(categoryName string) Check {
	return func(ctx *Context) error {
		channel, err := ctx.Session.State.Channel(ctx.Message.ChannelID)
		if err != nil || channel.ParentID == "" {
			return NewSilentCheckFailure("%s used outside the code jam categories", ctx.Command.Name)
		}
		parent, err := ctx.Session.State.Channel(channel.ParentID)
		if err != nil {
			parent, err = ctx.Session.Channel(channel.ParentID)
			if err != nil {
				return fmt.Errorf("failed to resolve channel category: %w", err)
			}
		}
		if parent.Name != categoryName {
			return NewSilentCheckFailure("%s used outside the code jam categories", ctx.Command.Name)
		}
		return nil
	}
}
