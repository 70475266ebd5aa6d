// Package jamclient is the bot-side client for the code jam
// management API. It handles bearer token minting and maps the API's
// error statuses onto typed errors.
package jamclient
