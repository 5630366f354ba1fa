package registration

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a raw password into its stored form.
type Hasher interface {
	Hash(password string) (string, error)
}

// BcryptHasher hashes with bcrypt. A zero Cost uses bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

// Hash implements Hasher.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(out), nil
}

// Matches reports whether password hashes to stored.
func (h BcryptHasher) Matches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
