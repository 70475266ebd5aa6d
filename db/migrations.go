// Package db holds the SQL migrations for the code jam management
// database. The migrations are embedded so production builds don't
// need the source tree on disk.
package db

import "embed"

// Migrations contains the SQL migration files.
//
//go:embed migrations
var Migrations embed.FS
