package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestForDriver(t *testing.T) {
	pg, err := ForDriver("pgx")
	require.NoError(t, err)
	assert.IsType(t, &PostgresRepositoryManager{}, pg)

	lite, err := ForDriver("sqlite")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepositoryManager{}, lite)

	_, err = ForDriver("mysql")
	require.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	assert.IsType(t, &accounts.PostgresRepository{}, NewPostgresRepositoryManager().Accounts(db))
	assert.IsType(t, &accounts.SQLiteRepository{}, NewSQLiteRepositoryManager().Accounts(db))
}

func stubGoose(t *testing.T, fn func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error) {
	t.Helper()
	orig := gooseUp
	gooseUp = fn
	t.Cleanup(func() { gooseUp = orig })
}

func TestRunMigrations_PassesDialectAndFiles(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var gotDialect goose.Dialect
	var gotFiles []string
	stubGoose(t, func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
		gotDialect = dialect
		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			return err
		}
		for _, e := range entries {
			gotFiles = append(gotFiles, e.Name())
		}
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, goose.DialectPostgres, gotDialect)
	assert.Contains(t, gotFiles, "00001_create_accounts.sql")

	gotFiles = nil
	require.NoError(t, NewSQLiteRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, goose.DialectSQLite3, gotDialect)
	assert.Contains(t, gotFiles, "00001_create_accounts.sql")
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	require.ErrorContains(t, err, "migrate postgres: boom")
}

func TestRunMigrations_SQLiteForReal(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	defer db.Close()

	m := NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), db))
	// Applying twice is a no-op.
	require.NoError(t, m.RunMigrations(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow(`select count(*) from accounts`).Scan(&n))
	assert.Equal(t, 0, n)
}
