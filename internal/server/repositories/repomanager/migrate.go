package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUp is a seam for testing goose migrations.
var gooseUp = func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// migrate applies the embedded migrations from dir with the given dialect.
func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := migrations.For(dir)
	if err != nil {
		return fmt.Errorf("migrations %s: %w", dir, err)
	}
	if err := gooseUp(ctx, dialect, db, fsys); err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	return nil
}
