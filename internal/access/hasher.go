package access

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher defines the access-code hashing contract. Plaintext codes never
// reach durable storage; the archive keeps only the hash so a presented code
// can still be verified against a receipt.
type Hasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed access-code hasher.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash converts a plain access code into a hash.
func (h *BcryptHasher) Hash(code string) (string, error) {
	if code == "" {
		return "", errors.New("access: empty code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks if the provided code matches the stored hash.
func (h *BcryptHasher) Compare(hash, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
}
