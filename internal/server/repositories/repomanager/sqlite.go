package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. It suits
// single-node deployments and tests.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, goose.DialectSQLite3, "sqlite")
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
