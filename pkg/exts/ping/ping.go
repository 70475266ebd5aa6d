// Package ping is the latency check command.
package ping

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/python-discord/sir-robin-go/pkg/bot"
)

// Extension sends an embed about the bot's ping.
type Extension struct{}

func New() *Extension {
	return &Extension{}
}

func (e *Extension) Name() string {
	return "Ping"
}

func (e *Extension) Register(b *bot.Bot) error {
	b.Router().Register(&bot.Command{
		Name: "ping",
		Help: "Ping the bot to see its latency and state.",
		Run:  e.ping,
	})
	return nil
}

func (e *Extension) ping(ctx *bot.Context) error {
	latency := ctx.Session.HeartbeatLatency()
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       ":ping_pong: Pong!",
		Description: fmt.Sprintf("Gateway Latency: %dms", latency.Milliseconds()),
		Color:       bot.ColourBlue,
	})
}
