// Package games facilitates our glorious team games.
package games

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron/v2"

	"github.com/python-discord/sir-robin-go/pkg/bot"
	"github.com/python-discord/sir-robin-go/pkg/rediscache"
)

// Team is one of the three teams for Python Discord Games.
type Team struct {
	Name  string
	Emoji string
}

// quackstackURL serves a freshly generated duck image.
const quackstackURL = "https://quackstack.pythondiscord.com/duck"

// superGamePeriod is how often the super game rolls its dice.
const superGamePeriod = 5 * time.Minute

// superGameDuration is how long gamers have to react with a ducky.
const superGameDuration = 15 * time.Second

// defaultSettings initialize the settings cache.
var defaultSettings = map[string]any{
	"reaction_min":      30,
	"reaction_max":      120,
	"ducky_probability": 0.25,
	"game_uptime":       15,
}

var teamAdjectives = map[string][]string{
	"list":  {"noble", "organized", "orderly", "chivalrous", "valiant"},
	"dict":  {"wise", "knowledgeable", "powerful"},
	"tuple": {"resilient", "strong", "steadfast", "resourceful"},
}

// Extension runs the team reaction game and the super duck game.
type Extension struct {
	bot   *bot.Bot
	teams []Team
	roles map[string]string // team name -> role ID

	points      *rediscache.Cache
	targetTimes *rediscache.Cache
	isOn        *rediscache.Cache
	settings    *rediscache.Cache

	rand *rand.Rand

	mu                sync.Mutex
	teamGameMessageID string
	chosenTeam        string
	alreadyReacted    map[string]bool
	superGameMessage  string
	superGameReactors map[string]string // user ID -> team name
}

func New() *Extension {
	return &Extension{
		rand:              bot.NewLockedRand(time.Now().UnixNano()),
		alreadyReacted:    make(map[string]bool),
		superGameReactors: make(map[string]string),
	}
}

func (e *Extension) Name() string {
	return "PydisGames"
}

func (e *Extension) Register(b *bot.Bot) error {
	e.bot = b
	e.teams = []Team{
		{Name: "list", Emoji: b.Config.Emojis.TeamList},
		{Name: "dict", Emoji: b.Config.Emojis.TeamDict},
		{Name: "tuple", Emoji: b.Config.Emojis.TeamTuple},
	}
	e.roles = map[string]string{
		"list":  b.Config.Roles.TeamList,
		"dict":  b.Config.Roles.TeamDict,
		"tuple": b.Config.Roles.TeamTuple,
	}
	e.points = rediscache.NewCache(b.Redis, "games.points")
	e.targetTimes = rediscache.NewCache(b.Redis, "games.target_times")
	e.isOn = rediscache.NewCache(b.Redis, "games.is_on")
	e.settings = rediscache.NewCache(b.Redis, "games.settings")

	if err := e.initCaches(context.Background()); err != nil {
		return err
	}

	b.Session.AddHandler(e.onMessage)
	b.Session.AddHandler(e.onReactionAdd)

	if _, err := b.Scheduler.NewJob(
		gocron.DurationJob(superGamePeriod),
		gocron.NewTask(e.superGame),
	); err != nil {
		return fmt.Errorf("failed to schedule super game: %w", err)
	}

	e.registerCommands(b)
	return nil
}

func (e *Extension) initCaches(ctx context.Context) error {
	for _, team := range e.teams {
		ok, err := e.points.Contains(ctx, team.Name)
		if err != nil {
			return fmt.Errorf("failed to read points cache: %w", err)
		}
		if !ok {
			slog.Debug("initializing team score", "team", team.Name)
			if err := e.points.Set(ctx, team.Name, 0); err != nil {
				return err
			}
		}
	}

	for name, value := range defaultSettings {
		ok, err := e.settings.Contains(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to read settings cache: %w", err)
		}
		if !ok {
			slog.Debug("setting missing, applying default", "setting", name)
			if err := e.settings.Set(ctx, name, value); err != nil {
				return err
			}
		}
	}

	ok, err := e.targetTimes.Contains(ctx, "team")
	if err != nil {
		return err
	}
	if !ok {
		return e.setReactionTime(ctx)
	}
	return nil
}

func (e *Extension) allowedChannels() []string {
	return []string{
		e.bot.Config.Channels.OffTopic0,
		e.bot.Config.Channels.OffTopic1,
		e.bot.Config.Channels.OffTopic2,
	}
}

func (e *Extension) elevatedRoles() []string {
	return []string{
		e.bot.Config.Roles.Admins,
		e.bot.Config.Roles.ModerationTeam,
		e.bot.Config.Roles.EventsLead,
	}
}

// onMessage starts a team reaction round when the timer has elapsed.
func (e *Extension) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !contains(e.allowedChannels(), m.ChannelID) {
		return
	}

	e.mu.Lock()
	running := e.teamGameMessageID != ""
	e.mu.Unlock()
	if running {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if on, err := e.isOn.GetBool(ctx, "value"); err != nil || !on {
		return
	}

	target, err := e.targetTimes.GetInt(ctx, "team")
	if err != nil || time.Now().Unix() < target {
		return
	}
	if err := e.setReactionTime(ctx); err != nil {
		slog.Warn("failed to reset reaction time", "error", err)
		return
	}

	team := e.chooseTeam(ctx)

	e.mu.Lock()
	e.teamGameMessageID = m.ID
	e.chosenTeam = team.Name
	e.alreadyReacted = make(map[string]bool)
	e.mu.Unlock()

	slog.Info("starting team game", "channel", m.ChannelID, "team", team.Name)
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, team.Emoji); err != nil {
		slog.Warn("failed to add team game reaction", "error", err)
	}

	uptime := e.settingInt(ctx, "game_uptime", 15)
	go e.endTeamGame(s, m.ChannelID, m.ID, team.Emoji, time.Duration(uptime)*time.Second)
}

func (e *Extension) endTeamGame(s *discordgo.Session, channelID, messageID, emoji string, after time.Duration) {
	time.Sleep(after)

	// If the message was deleted in the meantime, the reaction is
	// gone either way. Continue with cleanup.
	_ = s.MessageReactionsRemoveEmoji(channelID, messageID, emoji)

	e.mu.Lock()
	e.teamGameMessageID = ""
	e.chosenTeam = ""
	e.alreadyReacted = make(map[string]bool)
	e.mu.Unlock()
}

// onReactionAdd awards points for team game reactions and tallies
// ducky reactions during a super game.
func (e *Extension) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	e.mu.Lock()
	teamGameMessage := e.teamGameMessageID
	chosenTeam := e.chosenTeam
	superGameMessage := e.superGameMessage
	e.mu.Unlock()

	switch r.MessageID {
	case teamGameMessage:
		if teamGameMessage == "" {
			return
		}
		e.handleTeamGameReaction(s, r, chosenTeam)
	case superGameMessage:
		if superGameMessage == "" {
			return
		}
		if strings.HasPrefix(r.Emoji.Name, "ducky_") {
			team := e.memberTeam(s, r.UserID, r.Member)
			if team == "" {
				return
			}
			e.mu.Lock()
			e.superGameReactors[r.UserID] = team
			e.mu.Unlock()
		}
	}
}

func (e *Extension) handleTeamGameReaction(s *discordgo.Session, r *discordgo.MessageReactionAdd, chosenTeam string) {
	e.mu.Lock()
	reacted := e.alreadyReacted[r.UserID]
	if !reacted {
		e.alreadyReacted[r.UserID] = true
	}
	e.mu.Unlock()
	if reacted {
		return
	}

	memberTeam := e.memberTeam(s, r.UserID, r.Member)
	if memberTeam == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	delta := int64(-1)
	if memberTeam == chosenTeam {
		delta = 1
	}
	if _, err := e.points.Increment(ctx, memberTeam, delta); err != nil {
		slog.Warn("failed to award points", "team", memberTeam, "error", err)
	}
}

// superGame sends a ducky, waits for people to react, and tallies the
// points at the end.
func (e *Extension) superGame() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if on, err := e.isOn.GetBool(ctx, "value"); err != nil || !on {
		return
	}

	probability := e.settingFloat(ctx, "ducky_probability", 0.25)
	if e.rand.Float64() > probability {
		// With a 25% chance every 5 minutes, the event should happen
		// on average three times an hour.
		slog.Info("super game occurrence randomly skipped")
		return
	}

	channels := e.allowedChannels()
	channelID := channels[e.rand.Intn(len(channels))]
	slog.Info("starting super game", "channel", channelID)

	duckImageURL, err := e.fetchDuck(ctx)
	if err != nil {
		slog.Error("failed to fetch duck image", "error", err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Quack!",
		Description: "Every gamer react **with a ducky** to this message before time runs out for extra points!",
		Color:       bot.ColourGold,
		Image:       &discordgo.MessageEmbedImage{URL: duckImageURL},
	}
	message, err := e.bot.Session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		slog.Error("failed to send super game message", "error", err)
		return
	}

	e.mu.Lock()
	e.superGameMessage = message.ID
	e.superGameReactors = make(map[string]string)
	e.mu.Unlock()

	time.Sleep(superGameDuration)

	e.mu.Lock()
	reactors := e.superGameReactors
	e.superGameMessage = ""
	e.superGameReactors = make(map[string]string)
	e.mu.Unlock()

	teamCounts := make(map[string]int64)
	for _, team := range reactors {
		teamCounts[team]++
	}
	for team, count := range teamCounts {
		if _, err := e.points.Increment(ctx, team, count*5); err != nil {
			slog.Warn("failed to award super game points", "team", team, "error", err)
		}
	}

	embed.Description = "Time's up! Hope you reacted in time."
	if _, err := e.bot.Session.ChannelMessageEditEmbed(channelID, message.ID, embed); err != nil {
		slog.Warn("failed to close super game message", "error", err)
	}
}

func (e *Extension) fetchDuck(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, quackstackURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := e.bot.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("quackstack returned code %d", resp.StatusCode)
	}
	return resp.Header.Get("Location"), nil
}

// memberTeam returns the team of the reacting member, or "" when they
// have none.
func (e *Extension) memberTeam(s *discordgo.Session, userID string, member *discordgo.Member) string {
	if member == nil {
		var err error
		member, err = s.GuildMember(e.bot.Config.Client.Guild, userID)
		if err != nil {
			return ""
		}
	}
	for team, roleID := range e.roles {
		if contains(member.Roles, roleID) {
			return team
		}
	}
	return ""
}

func (e *Extension) chooseTeam(ctx context.Context) Team {
	scores := make(map[string]int64, len(e.teams))
	for _, team := range e.teams {
		score, err := e.points.GetInt(ctx, team.Name)
		if err != nil {
			score = 0
		}
		scores[team.Name] = score
	}

	name := ChooseWeightedTeam(scores, e.rand)
	for _, team := range e.teams {
		if team.Name == name {
			return team
		}
	}
	return e.teams[0]
}

// ChooseWeightedTeam randomly selects a team name weighted by the
// inverse of its points, so trailing teams catch up.
func ChooseWeightedTeam(scores map[string]int64, r *rand.Rand) string {
	names := make([]string, 0, len(scores))
	weights := make([]float64, 0, len(scores))
	total := 0.0
	for name, points := range scores {
		if points == 0 {
			points = 1
		}
		weight := 1 / float64(points)
		names = append(names, name)
		weights = append(weights, weight)
		total += weight
	}

	pick := r.Float64() * total
	for i, weight := range weights {
		pick -= weight
		if pick <= 0 {
			return names[i]
		}
	}
	return names[len(names)-1]
}

func (e *Extension) setReactionTime(ctx context.Context) error {
	reactionMin := e.settingInt(ctx, "reaction_min", 30)
	reactionMax := e.settingInt(ctx, "reaction_max", 120)
	delay := reactionMin
	if reactionMax > reactionMin {
		delay += e.rand.Int63n(reactionMax - reactionMin + 1)
	}
	next := time.Now().Add(time.Duration(delay) * time.Second).Unix()
	return e.targetTimes.Set(ctx, "team", next)
}

func (e *Extension) settingInt(ctx context.Context, name string, fallback int64) int64 {
	value, err := e.settings.GetInt(ctx, name)
	if err != nil {
		return fallback
	}
	return value
}

func (e *Extension) settingFloat(ctx context.Context, name string, fallback float64) float64 {
	raw, err := e.settings.Get(ctx, name)
	if err != nil {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func contains(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
