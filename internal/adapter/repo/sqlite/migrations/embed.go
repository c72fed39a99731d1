package migrations

import "embed"

// FS contains the embedded SQLite report schema.
//
//go:embed *.sql
var FS embed.FS
