package krypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the enforced Argon2 salt length in bytes.
const SaltSize = 16

// Argon2Params captures tunable parameters for Argon2id.
type Argon2Params struct {
	MemoryMB    uint32
	Time        uint32
	Parallelism uint8
}

// DefaultArgon2Params returns sane defaults for deriving a 256-bit key.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryMB:    64,
		Time:        3,
		Parallelism: 1,
	}
}

// DeriveKeyArgon2id derives an encoded symmetric key using Argon2id.
// It is the hardened alternative to DeriveKey for stores that do not need
// compatibility with the single-pass SHA-256 scheme; the caller owns
// persisting the salt.
func DeriveKeyArgon2id(secret string, salt []byte, p Argon2Params) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("derive key: empty secret: %w", ErrInvalidInput)
	}
	if len(salt) != SaltSize {
		return "", fmt.Errorf("derive key: salt must be %d bytes: %w", SaltSize, ErrInvalidInput)
	}
	if p.MemoryMB == 0 || p.Time == 0 || p.Parallelism == 0 {
		return "", fmt.Errorf("derive key: argon2 parameters must be positive: %w", ErrInvalidInput)
	}

	raw := argon2.IDKey([]byte(secret), salt, p.Time, p.MemoryMB*1024, p.Parallelism, KeySize)
	return keyEncoding.EncodeToString(raw), nil
}

// NewRandomSalt returns a cryptographically secure random Argon2 salt.
func NewRandomSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}
