package migrations

import "embed"

// Migrations holds the SQL migration files applied by golang-migrate.
//
//go:embed *.sql
var Migrations embed.FS
