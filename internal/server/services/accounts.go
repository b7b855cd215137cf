// Package services contains server-side business logic. AccountService
// implements registration, login, token refresh and verification, and the
// password-reset and re-verification flows.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
	"github.com/google/uuid"
)

// AccountService holds only read-only state and is safe for concurrent use.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	hasher      *auth.PasswordHasher
	notifier    notify.Notifier
	resolver    *Resolver
	log         logging.Logger
	newID       func() string
}

// NewAccountService wires the service. The clock lives in the token manager.
func NewAccountService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	tokens *auth.TokenManager,
	hasher *auth.PasswordHasher,
	notifier notify.Notifier,
	l logging.Logger,
) *AccountService {
	l = l.With("module", "accounts")
	return &AccountService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		notifier:    notifier,
		resolver:    NewResolver(l),
		log:         l,
		newID:       uuid.NewString,
	}
}

// Register validates the input and creates the account in one transaction.
// An empty role defaults to common.DefaultRole; any other role must pass
// validation.ValidateRole. The public transport always passes the default.
func (s *AccountService) Register(ctx context.Context, username, password, email, phoneNumber, role string) (*models.PublicAccount, error) {
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if role == "" {
		role = common.DefaultRole
	}
	if err := validation.ValidateRole(role); err != nil {
		return nil, err
	}

	var created *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		taken, err := repo.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrEmailTaken
		}

		taken, err = repo.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrUsernameTaken
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}

		created, err = repo.Create(ctx, &models.Account{
			ID:           s.newID(),
			Username:     username,
			Email:        email,
			PhoneNumber:  phoneNumber,
			PasswordHash: hash,
			Role:         role,
		})
		return err
	})
	if err != nil {
		var ce *common.Error
		if errors.As(err, &ce) && ce.Kind == common.KindConflict {
			return nil, ce
		}
		s.log.Error(ctx, "registration failed", "error", err)
		return nil, common.ErrRegistrationFailed
	}

	s.log.Info(ctx, "account registered", "account_id", created.ID)
	return created.Public(), nil
}

// Login resolves identifier and checks password. Unknown accounts and wrong
// passwords both yield common.ErrInvalidCredentials after a bcrypt compare.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*auth.TokenPair, error) {
	a, found, err := s.resolver.Resolve(ctx, s.repomanager.Accounts(s.db), identifier)
	if err != nil {
		return nil, err
	}
	if !found {
		s.hasher.CompareDummy(password)
		return nil, common.ErrInvalidCredentials
	}
	if !s.hasher.Compare(a.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(ctx, a)
}

// Refresh exchanges a refresh token for a new pair. The role is read from
// the store, since refresh tokens do not carry it.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.log.Debug(ctx, "refresh token rejected", "error", err)
		return nil, common.ErrInvalidRefreshToken
	}

	a, err := s.repomanager.Accounts(s.db).FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Debug(ctx, "refresh token for unknown account", "account_id", claims.AccountID)
			return nil, common.ErrInvalidRefreshToken
		}
		s.log.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrLookupFailed
	}
	return s.issue(ctx, a)
}

// VerifyToken reports whether token is a valid access token. The reason for
// a rejection is only logged.
func (s *AccountService) VerifyToken(ctx context.Context, token string) (*auth.AccessClaims, bool) {
	claims, err := s.tokens.VerifyAccess(token)
	if err != nil {
		s.log.Debug(ctx, "access token rejected", "error", err)
		return nil, false
	}
	return claims, true
}

func (s *AccountService) issue(ctx context.Context, a *models.Account) (*auth.TokenPair, error) {
	pair, err := s.tokens.IssuePair(a.ID, a.Role)
	if err != nil {
		s.log.Error(ctx, "issue token pair", "error", err)
		return nil, common.ErrorInternal
	}
	return pair, nil
}
