// Package auth mints and verifies the service's signed tokens and hashes
// passwords.
//
// Access tokens and refresh tokens are signed with different secrets, so a
// leaked refresh token cannot be replayed as an access token and the other
// way round. Single-purpose tokens (password reset, verification) share the
// access secret but carry their own audience, which VerifyAccess rejects.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audiences separate token purposes that share a secret.
const (
	AudienceAccess        = "access"
	AudienceRefresh       = "refresh"
	AudiencePasswordReset = "password_reset"
	AudienceVerification  = "verification"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// AccessClaims is the access token payload: {id, role} plus standard claims.
type AccessClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
	Role      string `json:"role"`
}

// SubjectClaims is the payload of refresh, reset and verification tokens.
// Role is left out so a role change only shows up after re-authentication.
type SubjectClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenConfig carries the secrets and lifetimes for a TokenManager.
type TokenConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	PasswordResetTTL time.Duration
	VerificationTTL  time.Duration
	Now              func() time.Time
}

// TokenManager issues and verifies tokens. It is immutable after
// construction and safe for concurrent use.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	ttl           map[string]time.Duration
	now           func() time.Time
}

// NewTokenManager fails when a secret is missing or both secrets are equal.
func NewTokenManager(c TokenConfig) (*TokenManager, error) {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return nil, errors.New("token secrets must be set")
	}
	if c.AccessSecret == c.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}
	return &TokenManager{
		accessSecret:  []byte(c.AccessSecret),
		refreshSecret: []byte(c.RefreshSecret),
		ttl: map[string]time.Duration{
			AudienceAccess:        c.AccessTTL,
			AudienceRefresh:       c.RefreshTTL,
			AudiencePasswordReset: c.PasswordResetTTL,
			AudienceVerification:  c.VerificationTTL,
		},
		now: now,
	}, nil
}

func (m *TokenManager) registered(audience string) (jwt.RegisteredClaims, time.Time) {
	now := m.now()
	exp := now.Add(m.ttl[audience])
	return jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}, exp
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// IssuePair signs an access token {id, role} and a refresh token {id}.
func (m *TokenManager) IssuePair(accountID, role string) (*TokenPair, error) {
	rc, _ := m.registered(AudienceAccess)
	access, err := sign(AccessClaims{RegisteredClaims: rc, AccountID: accountID, Role: role}, m.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	rc, _ = m.registered(AudienceRefresh)
	refresh, err := sign(SubjectClaims{RegisteredClaims: rc, AccountID: accountID}, m.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssuePurposeToken signs a single-purpose {id} token for the password
// reset or verification audience and returns it with its expiry.
func (m *TokenManager) IssuePurposeToken(audience, accountID string) (string, time.Time, error) {
	if audience != AudiencePasswordReset && audience != AudienceVerification {
		return "", time.Time{}, fmt.Errorf("unsupported token audience %q", audience)
	}
	rc, exp := m.registered(audience)
	token, err := sign(SubjectClaims{RegisteredClaims: rc, AccountID: accountID}, m.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", audience, err)
	}
	return token, exp, nil
}

// VerifyAccess checks signature, expiry and audience of an access token.
func (m *TokenManager) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(token, claims, m.accessSecret, AudienceAccess); err != nil {
		return nil, err
	}
	if claims.AccountID == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing id or role", ErrTokenInvalid)
	}
	return claims, nil
}

// VerifyRefresh checks a refresh token against the refresh secret.
func (m *TokenManager) VerifyRefresh(token string) (*SubjectClaims, error) {
	return m.verifySubject(token, m.refreshSecret, AudienceRefresh)
}

// VerifyPurposeToken checks a password reset or verification token.
func (m *TokenManager) VerifyPurposeToken(audience, token string) (*SubjectClaims, error) {
	if audience != AudiencePasswordReset && audience != AudienceVerification {
		return nil, fmt.Errorf("%w: unsupported audience %q", ErrTokenInvalid, audience)
	}
	return m.verifySubject(token, m.accessSecret, audience)
}

func (m *TokenManager) verifySubject(token string, secret []byte, audience string) (*SubjectClaims, error) {
	claims := &SubjectClaims{}
	if err := m.parse(token, claims, secret, audience); err != nil {
		return nil, err
	}
	if claims.AccountID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrTokenInvalid)
	}
	return claims, nil
}

func (m *TokenManager) parse(tokenString string, claims jwt.Claims, secret []byte, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
