// Package migrations embeds the SQL schema files so binaries can migrate
// without the migrations directory on disk.
package migrations

import "embed"

// Files holds every *.sql migration, applied in lexical order
//
//go:embed *.sql
var Files embed.FS
