package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when asked to encode an empty password.
var ErrEmptyPassword = errors.New("password is empty")

// Hasher encodes plaintext passwords into one-way digests and verifies
// candidates against them. Encode is not idempotent: encoding a digest again
// yields a digest of the digest, so callers must know which one they hold.
type Hasher interface {
	Encode(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// BCryptHasher is a [Hasher] backed by bcrypt.
type BCryptHasher struct {
	cost int
}

// NewBCryptHasher returns a hasher with the given work factor. Out of range
// costs fall back to bcrypt.DefaultCost.
func NewBCryptHasher(cost int) *BCryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BCryptHasher{cost: cost}
}

// Encode returns a salted bcrypt digest of plaintext. It errors if the
// password is empty or longer than 72 bytes.
func (h *BCryptHasher) Encode(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("encode password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests never
// match.
func (h *BCryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
