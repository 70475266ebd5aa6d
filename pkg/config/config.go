package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Client holds the bot's core settings.
type Client struct {
	Name          string
	Guild         string
	Prefix        string
	Token         string
	Debug         bool
	InCI          bool
	UseFakeRedis  bool
	CodeJamAPI    string
	CodeJamToken  string
	GitHubBotRepo string
}

// Redis holds connection settings for the cache backend.
type Redis struct {
	Host     string
	Port     int
	Password string
}

// Addr returns the host:port address for the Redis client.
func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Channels holds the guild channel IDs the bot operates in.
type Channels struct {
	BotCommands                string
	Devlog                     string
	CodeJamPlanning            string
	SirLancebotPlayground      string
	SummerCodeJam              string
	SummerCodeJamAnnouncements string
	AdventOfCode               string
	AdventOfCodeCommands       string
	SummerAoCMain              string
	SummerAoCDiscussion        string
	Roles                      string
	OffTopic0                  string
	OffTopic1                  string
	OffTopic2                  string
}

// Roles holds the guild role IDs the bot checks against or assigns.
type Roles struct {
	Admins              string
	ModerationTeam      string
	Helpers             string
	EventsLead          string
	EventRunner         string
	CodeJamEventTeam    string
	CodeJamParticipants string
	CodeJamSupport      string
	AdventOfCode        string
	AoCCompletionist    string
	SummerAoC           string
	TeamList            string
	TeamDict            string
	TeamTuple           string
}

// Emojis holds the emoji literals used in bot responses.
type Emojis struct {
	CheckMark     string
	ChristmasTree string
	Star          string
	TeamList      string
	TeamDict      string
	TeamTuple     string
}

// Leaderboard is a single Advent of Code private leaderboard the bot
// assigns participants to.
type Leaderboard struct {
	ID       string
	Session  string
	JoinCode string
}

// AdventOfCode holds the event settings for the Advent of Code extension.
type AdventOfCode struct {
	Year                        int
	Leaderboards                map[string]Leaderboard
	StaffLeaderboardID          string
	FallbackSession             string
	IgnoredDays                 []int
	LeaderboardCacheExpiry      int
	LeaderboardDisplayedMembers int
	MaxDayAndStarResults        int
}

// Config is the full bot configuration, loaded from the environment.
type Config struct {
	Client       Client
	Redis        Redis
	Channels     Channels
	Roles        Roles
	Emojis       Emojis
	AdventOfCode AdventOfCode
}

// Load builds the configuration from environment variables, falling back
// to the defaults for the Python Discord guild.
func Load() *Config {
	return &Config{
		Client: Client{
			Name:          "Sir Robin",
			Guild:         envString("BOT_GUILD", "267624335836053506"),
			Prefix:        envString("PREFIX", "&"),
			Token:         os.Getenv("BOT_TOKEN"),
			Debug:         envBool("BOT_DEBUG", true),
			InCI:          envBool("BOT_IN_CI", false) || envBool("IN_CI", false),
			UseFakeRedis:  envBool("REDIS_USE_FAKEREDIS", false) || envBool("USE_FAKEREDIS", false),
			CodeJamAPI:    envString("CODE_JAM_API", "http://code-jam-management.default.svc.cluster.local:8000"),
			CodeJamToken:  envString("CODE_JAM_API_KEY", "badbot13m0n8f570f942013fc818f234916ca531"),
			GitHubBotRepo: "https://github.com/python-discord/sir-robin",
		},
		Redis: Redis{
			Host:     envString("REDIS_HOST", "redis.default.svc.cluster.local"),
			Port:     envInt("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Channels: Channels{
			BotCommands:                envString("CHANNEL_BOT_COMMANDS", "267659945086812160"),
			Devlog:                     envString("CHANNEL_DEVLOG", "622895325144940554"),
			CodeJamPlanning:            envString("CHANNEL_CODE_JAM_PLANNING", "490217981872177157"),
			SirLancebotPlayground:      envString("CHANNEL_COMMUNITY_BOT_COMMANDS", "607247579608121354"),
			SummerCodeJam:              envString("CATEGORY_SUMMER_CODE_JAM", "987738098525937745"),
			SummerCodeJamAnnouncements: envString("SUMMER_CODE_JAM_ANNOUNCEMENTS", "988765608172736542"),
			AdventOfCode:               envString("CHANNEL_ADVENT_OF_CODE", "897932085766004786"),
			AdventOfCodeCommands:       envString("CHANNEL_ADVENT_OF_CODE_COMMANDS", "897932607545823342"),
			SummerAoCMain:              envString("CHANNEL_SUMMER_AOC_MAIN", "988979042847961112"),
			SummerAoCDiscussion:        envString("CHANNEL_SUMMER_AOC_DISCUSSION", "996438901331861554"),
			Roles:                      envString("CHANNEL_ROLES", "851270062434156586"),
			OffTopic0:                  envString("CHANNEL_OFF_TOPIC_0", "291284109232308226"),
			OffTopic1:                  envString("CHANNEL_OFF_TOPIC_1", "463035241142026251"),
			OffTopic2:                  envString("CHANNEL_OFF_TOPIC_2", "463035268514185226"),
		},
		Roles: Roles{
			Admins:              envString("ROLE_ADMINS", "267628507062992896"),
			ModerationTeam:      envString("ROLE_MODERATION_TEAM", "267629731250176001"),
			Helpers:             envString("ROLE_HELPERS", "267630620367257601"),
			EventsLead:          envString("ROLE_EVENTS_LEAD", "778361735739998228"),
			EventRunner:         envString("ROLE_EVENT_RUNNER", "940911658799333408"),
			CodeJamEventTeam:    envString("ROLE_CODE_JAM_EVENT_TEAM", "787816728474288181"),
			CodeJamParticipants: envString("CODE_JAM_PARTICIPANTS", "991678713093705781"),
			CodeJamSupport:      envString("ROLE_CODE_JAM_SUPPORT", "996048734332474920"),
			AdventOfCode:        envString("ROLE_ADVENT_OF_CODE", "518565788744024082"),
			AoCCompletionist:    envString("ROLE_AOC_COMPLETIONIST", "916691790181056532"),
			SummerAoC:           envString("ROLE_SUMMER_AOC", "988801794668908655"),
			TeamList:            envString("ROLE_TEAM_LIST", "1222687663783813171"),
			TeamDict:            envString("ROLE_TEAM_DICT", "1222687776527618099"),
			TeamTuple:           envString("ROLE_TEAM_TUPLE", "1222687870933602334"),
		},
		Emojis: Emojis{
			CheckMark:     "✅",
			ChristmasTree: "\U0001F384",
			Star:          "⭐",
			TeamList:      "\U0001F4DC",
			TeamDict:      "\U0001F4D5",
			TeamTuple:     "\U0001F4E6",
		},
		AdventOfCode: AdventOfCode{
			Year:                        envInt("AOC_YEAR", 2023),
			Leaderboards:                parseLeaderboards(os.Getenv("AOC_LEADERBOARDS")),
			StaffLeaderboardID:          os.Getenv("AOC_STAFF_LEADERBOARD_ID"),
			FallbackSession:             os.Getenv("AOC_FALLBACK_SESSION"),
			IgnoredDays:                 parseDays(os.Getenv("AOC_IGNORED_DAYS")),
			LeaderboardCacheExpiry:      envInt("AOC_CACHE_EXPIRY_SECONDS", 1800),
			LeaderboardDisplayedMembers: envInt("AOC_LEADERBOARD_DISPLAYED_MEMBERS", 10),
			MaxDayAndStarResults:        envInt("AOC_MAX_DAY_AND_STAR_RESULTS", 15),
		},
	}
}

// Validate checks the settings the bot daemon cannot run without.
func (c *Config) Validate() error {
	if c.Client.Token == "" && !c.Client.InCI {
		return fmt.Errorf("BOT_TOKEN environment variable is required")
	}
	if _, err := url.Parse(c.Client.CodeJamAPI); err != nil {
		return fmt.Errorf("invalid CODE_JAM_API value: %w", err)
	}
	if c.Redis.Host == "" && !c.Client.UseFakeRedis {
		return fmt.Errorf("REDIS_HOST environment variable is required")
	}
	return nil
}

// parseLeaderboards parses the AOC_LEADERBOARDS value. Each board is an
// "id,session,join_code" triple and boards are separated by "::".
func parseLeaderboards(raw string) map[string]Leaderboard {
	boards := make(map[string]Leaderboard)
	if raw == "" {
		return boards
	}
	for _, entry := range strings.Split(raw, "::") {
		parts := strings.Split(strings.TrimSpace(entry), ",")
		if len(parts) != 3 {
			continue
		}
		boards[parts[0]] = Leaderboard{
			ID:       parts[0],
			Session:  parts[1],
			JoinCode: parts[2],
		}
	}
	return boards
}

func parseDays(raw string) []int {
	if raw == "" {
		return nil
	}
	var days []int
	for _, part := range strings.Split(raw, ",") {
		if day, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			days = append(days, day)
		}
	}
	return days
}

func envString(name, fallback string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	if val := os.Getenv(name); val != "" {
		return val == "true" || val == "1"
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if val := os.Getenv(name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
