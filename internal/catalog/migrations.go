package catalog

import "embed"

// Migrations holds the Postgres catalog schema, applied by cmd/migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS
