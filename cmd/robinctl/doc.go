// Package main provides robinctl, the CLI for the Sir Robin events bot
// and the code jam management API.
//
// # Architecture
//
// The project is organized into several packages:
//
//   - pkg/bot: Discord gateway session, command router and checks
//   - pkg/exts: the bot's feature extensions (code jam, AoC, games, ...)
//   - pkg/jamapi: HTTP server and REST endpoints for the management API
//   - pkg/jamapi/store: persistence layer backed by GORM
//   - pkg/jamclient: typed client the bot uses to reach the API
//   - pkg/rediscache: namespaced Redis hash caches
//   - pkg/approval: review approval policies for event repositories
//   - pkg/config: bot configuration from the environment
//
// # Quick Start
//
//	# Run database migrations
//	robinctl db migrate
//
//	# Start the management API
//	robinctl server
//
//	# Start the Discord bot
//	robinctl run
//
// # Environment Variables
//
//   - BOT_TOKEN: Discord bot token
//   - BOT_PREFIX: command prefix (default: &)
//   - DATABASE_URL: PostgreSQL connection string for the management API
//   - CODE_JAM_API_KEY: shared secret for management API tokens
//   - REDIS_URI: Redis connection string
//   - BOT_DEBUG: enable debug logging (true/false)
//   - PORT: management API port (default: 8000)
package main
