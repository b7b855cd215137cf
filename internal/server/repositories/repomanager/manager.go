// Package repomanager vends repository implementations for the configured
// database driver and runs its schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}

// ForDriver returns the manager matching a config.Driver* name.
func ForDriver(driver string) (RepositoryManager, error) {
	switch driver {
	case config.DriverPostgres:
		return NewPostgresRepositoryManager(), nil
	case config.DriverSQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
