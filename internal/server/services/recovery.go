package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

// Messages returned by the recovery flows whether or not the account exists.
const (
	ForgotPasswordMessage     = "If the account exists, a password reset link has been sent."
	ResendVerificationMessage = "If the account exists, a verification link has been sent."
	PasswordResetMessage      = "Password has been reset."
	VerificationMessage       = "Account has been verified."
)

// ForgotPassword sends a password reset token to the account owner.
func (s *AccountService) ForgotPassword(ctx context.Context, identifier string) (string, error) {
	if err := s.sendToken(ctx, identifier, models.DeliveryPasswordReset, auth.AudiencePasswordReset); err != nil {
		return "", err
	}
	return ForgotPasswordMessage, nil
}

// ResendVerification sends a fresh verification token to the account owner.
func (s *AccountService) ResendVerification(ctx context.Context, identifier string) (string, error) {
	if err := s.sendToken(ctx, identifier, models.DeliveryVerification, auth.AudienceVerification); err != nil {
		return "", err
	}
	return ResendVerificationMessage, nil
}

// sendToken only fails on resolution errors. Unknown accounts and delivery
// failures look like success to the caller.
func (s *AccountService) sendToken(ctx context.Context, identifier string, kind models.DeliveryKind, audience string) error {
	a, found, err := s.resolver.Resolve(ctx, s.repomanager.Accounts(s.db), identifier)
	if err != nil {
		if errors.Is(err, common.ErrAmbiguousIdentifier) {
			return err
		}
		return common.ErrRequestFailed
	}
	if !found {
		s.log.Debug(ctx, "recovery requested for unknown identifier", "kind", kind)
		return nil
	}

	token, exp, err := s.tokens.IssuePurposeToken(audience, a.ID)
	if err != nil {
		s.log.Error(ctx, "issue purpose token", "kind", kind, "error", err)
		return nil
	}

	err = s.notifier.Notify(ctx, models.Delivery{
		Kind:        kind,
		AccountID:   a.ID,
		Username:    a.Username,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Token:       token,
		ExpiresAt:   exp,
	})
	if err != nil {
		s.log.Error(ctx, "delivery failed", "kind", kind, "account_id", a.ID, "error", err)
		return nil
	}
	s.log.Info(ctx, "delivery sent", "kind", kind, "account_id", a.ID)
	return nil
}

// ResetPassword sets a new password for the owner of a reset token.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	claims, err := s.tokens.VerifyPurposeToken(auth.AudiencePasswordReset, token)
	if err != nil {
		s.log.Debug(ctx, "reset token rejected", "error", err)
		return "", common.ErrInvalidResetToken
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.log.Error(ctx, "hash password", "error", err)
		return "", common.ErrRequestFailed
	}

	err = s.repomanager.Accounts(s.db).UpdatePasswordHash(ctx, claims.AccountID, hash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidResetToken
		}
		s.log.Error(ctx, "update password", "error", err)
		return "", common.ErrRequestFailed
	}
	s.log.Info(ctx, "password reset", "account_id", claims.AccountID)
	return PasswordResetMessage, nil
}

// ConfirmVerification marks the owner of a verification token as verified.
func (s *AccountService) ConfirmVerification(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.VerifyPurposeToken(auth.AudienceVerification, token)
	if err != nil {
		s.log.Debug(ctx, "verification token rejected", "error", err)
		return "", common.ErrInvalidVerificationToken
	}

	err = s.repomanager.Accounts(s.db).MarkVerified(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidVerificationToken
		}
		s.log.Error(ctx, "mark verified", "error", err)
		return "", common.ErrRequestFailed
	}
	s.log.Info(ctx, "account verified", "account_id", claims.AccountID)
	return VerificationMessage, nil
}
