// Package migrations embeds the SQL schema applied by cmd/migrate and, when
// enabled, by cmd/server at startup.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
