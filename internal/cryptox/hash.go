package cryptox

import (
	"errors"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor for account and master passwords.
const DefaultCost = 10

// HashSecret returns a bcrypt hash of secret. Secrets longer than 72 bytes
// are rejected as a validation error.
func HashSecret(secret string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.NewValidationError("Password is too long")
		}
		return "", err
	}
	return string(h), nil
}

// CompareSecret reports whether candidate matches the bcrypt hash.
func CompareSecret(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
