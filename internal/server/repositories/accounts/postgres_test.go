package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

var accountColumns = []string{"id", "username", "email", "password_hash", "phone_number", "role", "verified", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func newAccount() *models.Account {
	return &models.Account{
		ID:           "9b2f7c7e-1d1a-4a51-9d2e-2c1b7d1f0a11",
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: []byte("hash"),
		PhoneNumber:  "1234567890",
		Role:         "user",
	}
}

const insertQuery = `(?s)^\s*INSERT\s+INTO\s+accounts\s*\(id,\s*username,\s*email,\s*password_hash,\s*phone_number,\s*role\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+created_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := newAccount()
	mock.ExpectQuery(insertQuery).
		WithArgs(a.ID, "alice", "a@x.com", []byte("hash"), "1234567890", "user").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(created) || got.Username != "alice" {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"accounts_email_key", common.ErrEmailTaken},
		{"accounts_username_key", common.ErrUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(insertQuery).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			_, err := repo.Create(context.Background(), newAccount())
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), newAccount())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if common.KindOf(err) != common.KindUnknown {
		t.Fatalf("raw db errors must not look like taxonomy errors: %v", err)
	}
}

const findByIdentifierQuery = `(?s)SELECT\s+id::text,.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s+OR\s+username\s*=\s*\$1\s+LIMIT\s+1`

func TestFindByEmailOrUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(accountColumns).
		AddRow("u-1", "alice", "a@x.com", []byte("hash"), "1234567890", "admin", true, time.Now())
	mock.ExpectQuery(findByIdentifierQuery).WithArgs("a@x.com").WillReturnRows(rows)

	got, err := repo.FindByEmailOrUsername(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmailOrUsername error: %v", err)
	}
	if got.ID != "u-1" || got.Role != "admin" || !got.Verified {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestFindByEmailOrUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findByIdentifierQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmailOrUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByPhoneNumber_ReturnsAllMatches(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id::text,.*WHERE\s+phone_number\s*=\s*\$1\s+LIMIT\s+2`
	rows := sqlmock.NewRows(accountColumns).
		AddRow("u-1", "alice", "a@x.com", []byte("h"), "+15550001111", "user", false, time.Now()).
		AddRow("u-2", "bob", "b@x.com", []byte("h"), "+15550001111", "user", false, time.Now())
	mock.ExpectQuery(q).WithArgs("+15550001111").WillReturnRows(rows)

	got, err := repo.FindByPhoneNumber(context.Background(), "+15550001111")
	if err != nil {
		t.Fatalf("FindByPhoneNumber error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
}

func TestFindByPhoneNumber_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`phone_number`).WillReturnError(errors.New("db err"))

	_, err := repo.FindByPhoneNumber(context.Background(), "+1555")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)WHERE\s+id\s*=\s*\$1`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM accounts WHERE email = \$1\)`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM accounts WHERE username = \$1\)`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	found, err := repo.EmailExists(context.Background(), "a@x.com")
	if err != nil || !found {
		t.Fatalf("EmailExists: found=%v err=%v", found, err)
	}
	found, err = repo.UsernameExists(context.Background(), "alice")
	if err != nil || found {
		t.Fatalf("UsernameExists: found=%v err=%v", found, err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `UPDATE accounts SET password_hash = \$2 WHERE id = \$1`
	mock.ExpectExec(q).WithArgs("u-1", []byte("new")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("u-9", []byte("new")).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdatePasswordHash(context.Background(), "u-1", []byte("new")); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
	if err := repo.UpdatePasswordHash(context.Background(), "u-9", []byte("new")); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMarkVerified_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts SET verified = TRUE WHERE id = \$1`).
		WithArgs("u-1").
		WillReturnError(errors.New("db err"))

	err := repo.MarkVerified(context.Background(), "u-1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
