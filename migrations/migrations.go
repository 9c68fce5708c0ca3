// Package migrations embeds the goose SQL migrations so the binary can
// bring its own schema up to date on start.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
