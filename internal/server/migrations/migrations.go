// Package migrations embeds the goose migration scripts applied at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
