// Package migrations embeds the SQL schema files for startup migration runs.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
