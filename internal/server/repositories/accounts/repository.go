// Package accounts declares the server-side repository contract for
// account rows and provides PostgreSQL and SQLite implementations.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository defines the account queries used by the services.
// Implementations bind to a dbx.DBTX, so the same code runs inside or
// outside a transaction.
type Repository interface {
	// Create inserts the account. A unique violation on email or username
	// is reported as common.ErrEmailTaken or common.ErrUsernameTaken.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// FindByEmailOrUsername returns common.ErrorNotFound when nothing matches.
	FindByEmailOrUsername(ctx context.Context, identifier string) (*models.Account, error)

	// FindByPhoneNumber returns up to two matches; more than one means the
	// phone number is ambiguous.
	FindByPhoneNumber(ctx context.Context, phone string) ([]*models.Account, error)

	// FindByID returns common.ErrorNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*models.Account, error)

	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// UpdatePasswordHash and MarkVerified return common.ErrorNotFound when
	// no row was touched.
	UpdatePasswordHash(ctx context.Context, id string, hash []byte) error
	MarkVerified(ctx context.Context, id string) error
}
