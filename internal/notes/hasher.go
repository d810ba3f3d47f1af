package notes

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// PasswordHasher turns plaintext passwords into one-way hashes and checks candidates
// against stored hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, storedHash string) bool
}

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher constructs a bcrypt-backed PasswordHasher with an adaptive work factor.
func NewPasswordHasher() PasswordHasher {
	return &bcryptHasher{cost: bcryptCost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext reproduces the stored hash. A malformed
// stored hash verifies false rather than failing the caller.
func (h *bcryptHasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
