// Package migrations embeds the goose schema migrations for every
// supported database driver.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// For returns the migration directory for dir ("postgres" or "sqlite").
func For(dir string) (fs.FS, error) {
	return fs.Sub(Migrations, dir)
}
