package models

import "time"

// Account is a stored identity. PasswordHash never leaves the server
// package boundary; use Public for anything returned to callers.
type Account struct {
	ID           string
	Username     string
	Email        string
	PhoneNumber  string
	PasswordHash []byte
	Role         string
	Verified     bool
	CreatedAt    time.Time
}

// PublicAccount is the caller-safe projection of an Account.
type PublicAccount struct {
	ID          string
	Username    string
	Email       string
	PhoneNumber string
	Role        string
}

func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Role:        a.Role,
	}
}
