// Package config provides configuration for the Sir Robin bot.
//
// All settings are loaded from environment variables, with defaults
// matching the Python Discord guild. Snowflake IDs are kept as strings
// since that is how the Discord API addresses them.
//
// # Key Configuration Options
//
//   - BOT_TOKEN: Discord bot token
//   - BOT_IN_CI: construct the bot without connecting to Discord
//   - REDIS_HOST / REDIS_USE_FAKEREDIS: cache backend selection
//   - CODE_JAM_API / CODE_JAM_API_KEY: code jam management service
//   - AOC_LEADERBOARDS: Advent of Code private leaderboards
package config
