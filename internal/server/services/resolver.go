package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

var alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ByEmailOrUsername reports whether identifier is looked up by email or
// username. Everything else is treated as a phone number.
func ByEmailOrUsername(identifier string) bool {
	return strings.Contains(identifier, "@") || alphanumeric.MatchString(identifier)
}

// Resolver maps a human-supplied identifier to at most one account.
type Resolver struct {
	log logging.Logger
}

func NewResolver(l logging.Logger) *Resolver {
	return &Resolver{log: l}
}

// Resolve returns (account, true, nil) on a unique match and (nil, false,
// nil) when nothing matches. A phone number shared by several accounts
// yields common.ErrAmbiguousIdentifier; store failures are logged and
// reported as common.ErrLookupFailed.
func (r *Resolver) Resolve(ctx context.Context, repo accounts.Repository, identifier string) (*models.Account, bool, error) {
	if ByEmailOrUsername(identifier) {
		a, err := repo.FindByEmailOrUsername(ctx, identifier)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, false, nil
			}
			r.log.Error(ctx, "account lookup failed", "path", "email_or_username", "error", err)
			return nil, false, common.ErrLookupFailed
		}
		return a, true, nil
	}

	matches, err := repo.FindByPhoneNumber(ctx, identifier)
	if err != nil {
		r.log.Error(ctx, "account lookup failed", "path", "phone_number", "error", err)
		return nil, false, common.ErrLookupFailed
	}
	switch len(matches) {
	case 0:
		return nil, false, nil
	case 1:
		return matches[0], true, nil
	default:
		r.log.Error(ctx, "phone number matches several accounts", "count", len(matches))
		return nil, false, common.ErrAmbiguousIdentifier
	}
}
