// Package migrations embeds the SQL schema files applied by cmd/migrate.
// Files are named NNN_description.sql and applied in lexical order.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
