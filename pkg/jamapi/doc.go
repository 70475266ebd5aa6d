// Package jamapi implements the code jam management HTTP API. It
// exposes CRUD endpoints for jams, teams, users, winners and
// infractions backed by Postgres, and is consumed by the bot through
// the jamclient package.
package jamapi
