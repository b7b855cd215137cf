package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, goose.DialectPostgres, "postgres")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
