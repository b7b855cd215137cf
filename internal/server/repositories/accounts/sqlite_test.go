package accounts_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) (*sql.DB, *accounts.SQLiteRepository) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repomanager.NewSQLiteRepositoryManager().RunMigrations(context.Background(), db))
	return db, accounts.NewSQLiteRepository(db)
}

func account(username, email, phone string) *models.Account {
	return &models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: []byte("hash-" + username),
		PhoneNumber:  phone,
		Role:         "user",
	}
}

func TestSQLite_CreateAndFind(t *testing.T) {
	_, repo := setupSQLite(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, account("alice", "a@x.com", "1234567890"))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmailOrUsername(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, []byte("hash-alice"), byEmail.PasswordHash)
	assert.False(t, byEmail.Verified)

	byName, err := repo.FindByEmailOrUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.True(t, byID.CreatedAt.Equal(created.CreatedAt))

	_, err = repo.FindByEmailOrUsername(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_UniqueConstraints(t *testing.T) {
	_, repo := setupSQLite(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, account("alice", "a@x.com", "1234567890"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, account("alice2", "a@x.com", "1234567890"))
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	_, err = repo.Create(ctx, account("alice", "other@x.com", "1234567890"))
	assert.ErrorIs(t, err, common.ErrUsernameTaken)
}

func TestSQLite_PhoneMatchesAreNotUnique(t *testing.T) {
	_, repo := setupSQLite(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, account("alice", "a@x.com", "1234567890"))
	require.NoError(t, err)

	one, err := repo.FindByPhoneNumber(ctx, "1234567890")
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = repo.Create(ctx, account("bob", "b@x.com", "1234567890"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, account("carol", "c@x.com", "1234567890"))
	require.NoError(t, err)

	many, err := repo.FindByPhoneNumber(ctx, "1234567890")
	require.NoError(t, err)
	assert.Len(t, many, 2, "lookup stops after the second match")

	none, err := repo.FindByPhoneNumber(ctx, "0000000000")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_ExistsAndUpdates(t *testing.T) {
	_, repo := setupSQLite(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, account("alice", "a@x.com", "1234567890"))
	require.NoError(t, err)

	found, err := repo.EmailExists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, found)
	found, err = repo.UsernameExists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.UpdatePasswordHash(ctx, a.ID, []byte("new-hash")))
	require.NoError(t, repo.MarkVerified(ctx, a.ID))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-hash"), got.PasswordHash)
	assert.True(t, got.Verified)

	err = repo.MarkVerified(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
