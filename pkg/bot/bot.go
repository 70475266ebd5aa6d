package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron/v2"

	"github.com/python-discord/sir-robin-go/pkg/config"
	"github.com/python-discord/sir-robin-go/pkg/paste"
	"github.com/python-discord/sir-robin-go/pkg/rediscache"
)

// Extension is a self-contained bot feature. Register is called once
// during startup and wires the extension's commands and handlers.
type Extension interface {
	Name() string
	Register(b *Bot) error
}

// Bot is the Sir Robin Discord bot.
type Bot struct {
	Config    *config.Config
	Session   *discordgo.Session
	Redis     *rediscache.Client
	Scheduler gocron.Scheduler
	HTTP      *http.Client
	Paste     *paste.Client

	router         *Router
	extensions     []Extension
	guildAvailable chan struct{}
	guildOnce      sync.Once
}

// New constructs the bot and its dependencies. The gateway session is
// created but not opened; call Run to connect.
func New(cfg *config.Config) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Client.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	redisClient, err := rediscache.NewClient(cfg.Redis, cfg.Client.UseFakeRedis)
	if err != nil {
		return nil, err
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	b := &Bot{
		Config:         cfg,
		Session:        session,
		Redis:          redisClient,
		Scheduler:      scheduler,
		HTTP:           httpClient,
		Paste:          paste.NewClient("", httpClient),
		guildAvailable: make(chan struct{}),
	}
	b.router = NewRouter(b)

	session.AddHandler(b.onReady)
	session.AddHandler(b.onGuildAvailable)
	session.AddHandler(b.router.Dispatch)

	return b, nil
}

// AddExtension registers an extension with the bot.
func (b *Bot) AddExtension(ext Extension) error {
	if err := ext.Register(b); err != nil {
		return fmt.Errorf("failed to load extension %s: %w", ext.Name(), err)
	}
	b.extensions = append(b.extensions, ext)
	slog.Info("extension loaded", "extension", ext.Name())
	return nil
}

// Router returns the bot's command router.
func (b *Bot) Router() *Router {
	return b.router
}

// Run opens the gateway connection and blocks until the context is
// cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	b.Scheduler.Start()

	slog.Info("bot running", "name", b.Config.Client.Name, "prefix", b.Config.Client.Prefix)
	<-ctx.Done()
	return b.Close()
}

// Close shuts down the scheduler, the gateway session and the cache
// client.
func (b *Bot) Close() error {
	if err := b.Scheduler.Shutdown(); err != nil {
		slog.Warn("scheduler shutdown failed", "error", err)
	}
	if err := b.Session.Close(); err != nil {
		slog.Warn("session close failed", "error", err)
	}
	return b.Redis.Close()
}

// WaitUntilGuildAvailable blocks until the configured guild has been
// received from the gateway. Task loops call this before touching
// channels or roles.
func (b *Bot) WaitUntilGuildAvailable(ctx context.Context) error {
	select {
	case <-b.guildAvailable:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	slog.Info("gateway ready", "user", r.User.Username, "session", r.SessionID)
}

func (b *Bot) onGuildAvailable(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.ID != b.Config.Client.Guild {
		return
	}

	// GUILD_CREATE is redelivered on gateway reconnects, with each
	// event on its own goroutine; the gate must close exactly once.
	b.guildOnce.Do(func() {
		if !b.Config.Client.Debug {
			b.verifyChannels(g.Guild)
		}
		close(b.guildAvailable)
		slog.Info("guild available", "guild", g.ID)
	})
}

// verifyChannels confirms the configured channels exist in the guild so
// a bad environment fails loudly at startup instead of mid-event.
func (b *Bot) verifyChannels(guild *discordgo.Guild) {
	channels := map[string]string{
		"devlog":       b.Config.Channels.Devlog,
		"bot_commands": b.Config.Channels.BotCommands,
	}
	present := make(map[string]bool, len(guild.Channels))
	for _, ch := range guild.Channels {
		present[ch.ID] = true
	}
	for name, id := range channels {
		if !present[id] {
			slog.Warn("configured channel not found in guild", "channel", name, "id", id)
		}
	}
}

// SendDevLog posts an embed to the devlog channel. Failures are logged
// and swallowed so devlog noise never breaks a command.
func (b *Bot) SendDevLog(title, description string) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColourBrightGreen,
	}
	if _, err := b.Session.ChannelMessageSendEmbed(b.Config.Channels.Devlog, embed); err != nil {
		slog.Warn("failed to send devlog message", "error", err)
	}
}
