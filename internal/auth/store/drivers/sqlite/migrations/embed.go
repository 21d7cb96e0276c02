package migrations

import "embed"

// Migrations holds the SQLite schema, applied by golang-migrate via iofs.
//
//go:embed *.sql
var Migrations embed.FS
