package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx) using the pgx stdlib driver.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPostgres(row scanner) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.PhoneNumber, &a.Role, &a.Verified, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, phone_number, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash, account.PhoneNumber, account.Role,
	).Scan(&account.CreatedAt)
	if err != nil {
		if conflict := postgresConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// postgresConflict maps a unique violation to the matching conflict error.
func postgresConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "accounts_email_key":
		return common.ErrEmailTaken
	case "accounts_username_key":
		return common.ErrUsernameTaken
	}
	return nil
}

func (r *PostgresRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*models.Account, error) {
	query := `
		SELECT id::text, username, email, password_hash, phone_number, role, verified, created_at
		FROM accounts
		WHERE email = $1 OR username = $1
		LIMIT 1
	`
	a, err := scanPostgres(r.db.QueryRowContext(ctx, query, identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) FindByPhoneNumber(ctx context.Context, phone string) ([]*models.Account, error) {
	query := `
		SELECT id::text, username, email, password_hash, phone_number, role, verified, created_at
		FROM accounts
		WHERE phone_number = $1
		LIMIT 2
	`
	rows, err := r.db.QueryContext(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collect(rows, scanPostgres)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id::text, username, email, password_hash, phone_number, role, verified, created_at
		FROM accounts
		WHERE id = $1
	`
	a, err := scanPostgres(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email)
}

func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username)
}

func (r *PostgresRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, hash []byte) error {
	return r.update(ctx, `UPDATE accounts SET password_hash = $2 WHERE id = $1`, id, hash)
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id string) error {
	return r.update(ctx, `UPDATE accounts SET verified = TRUE WHERE id = $1`, id)
}

func (r *PostgresRepository) update(ctx context.Context, query string, args ...any) error {
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
