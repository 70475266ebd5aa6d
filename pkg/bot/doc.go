// Package bot implements the Sir Robin Discord bot core.
//
// The Bot owns the gateway session, the Redis cache client, the job
// scheduler and the shared HTTP client. Features are packaged as
// extensions which register prefix commands and event handlers when the
// bot starts.
package bot
