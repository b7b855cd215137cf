package auth

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a fixed cost.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher prepares a hasher. It also hashes a random password
// once so unknown accounts can be answered with a compare of equal cost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("seed dummy hash: %w", err)
	}
	// bcrypt limits input to 72 bytes; hex keeps the seed printable and short.
	dummy, err := bcrypt.GenerateFromPassword(fmt.Appendf(nil, "%x", seed[:16]), cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

func (h *PasswordHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

// Compare reports whether password matches hash.
func (h *PasswordHasher) Compare(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// CompareDummy spends the same work as Compare and always fails.
func (h *PasswordHasher) CompareDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	return false
}
