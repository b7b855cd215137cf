package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository on top of modernc.org/sqlite.
// Timestamps are stored as RFC 3339 text.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanSQLite(row scanner) (*models.Account, error) {
	a := &models.Account{}
	var created string
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.PhoneNumber, &a.Role, &a.Verified, &created)
	if err != nil {
		return nil, err
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `INSERT INTO accounts (id, username, email, password_hash, phone_number, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	created := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash, account.PhoneNumber, account.Role,
		created.Format(time.RFC3339Nano),
	)
	if err != nil {
		if conflict := sqliteConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	account.CreatedAt = created
	return account, nil
}

// sqliteConflict maps a UNIQUE constraint failure to the matching conflict
// error. SQLite names the column ("accounts.email") in the message.
func sqliteConflict(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return nil
	}
	msg := se.Error()
	switch {
	case strings.Contains(msg, "accounts.email"):
		return common.ErrEmailTaken
	case strings.Contains(msg, "accounts.username"):
		return common.ErrUsernameTaken
	}
	return nil
}

func (r *SQLiteRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*models.Account, error) {
	query := `select id, username, email, password_hash, phone_number, role, verified, created_at
		from accounts where email = ? or username = ? limit 1`

	a, err := scanSQLite(r.db.QueryRowContext(ctx, query, identifier, identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) FindByPhoneNumber(ctx context.Context, phone string) ([]*models.Account, error) {
	query := `select id, username, email, password_hash, phone_number, role, verified, created_at
		from accounts where phone_number = ? limit 2`

	rows, err := r.db.QueryContext(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collect(rows, scanSQLite)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := `select id, username, email, password_hash, phone_number, role, verified, created_at
		from accounts where id = ?`

	a, err := scanSQLite(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `select exists (select 1 from accounts where email = ?)`, email)
}

func (r *SQLiteRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `select exists (select 1 from accounts where username = ?)`, username)
}

func (r *SQLiteRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id string, hash []byte) error {
	return r.update(ctx, `update accounts set password_hash = ? where id = ?`, hash, id)
}

func (r *SQLiteRepository) MarkVerified(ctx context.Context, id string) error {
	return r.update(ctx, `update accounts set verified = 1 where id = ?`, id)
}

func (r *SQLiteRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
