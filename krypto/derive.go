package krypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// KeySize is the raw length of every symmetric key handled by this package.
const KeySize = 32

// EncodedKeySize is the length of a key at the application boundary:
// base64url text of a KeySize digest, padding included.
const EncodedKeySize = 44

// alphabet is the character set for generated secrets and file-name suffixes.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// keyEncoding is the base64 variant used for keys and tokens. URL-safe so
// the encoded text can live in file names, terminals, and flat files.
var keyEncoding = base64.URLEncoding

// DeriveKey turns a master secret into an encoded symmetric key by hashing
// it once with SHA-256 and base64url-encoding the digest. Deterministic: the
// same secret always yields the same key, so a user can re-derive their key
// from a remembered master password.
//
// A single unsalted hash pass is deliberately kept for compatibility with
// existing stores; DeriveKeyArgon2id is the hardened alternative.
func DeriveKey(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("derive key: empty secret: %w", ErrInvalidInput)
	}
	digest := sha256.Sum256([]byte(secret))
	return keyEncoding.EncodeToString(digest[:]), nil
}

// DecodeKey validates and decodes an encoded key into its raw bytes.
func DecodeKey(encoded string) ([]byte, error) {
	raw, err := keyEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", ErrInvalidKey)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("decode key: %d bytes, want %d: %w", len(raw), KeySize, ErrInvalidKey)
	}
	return raw, nil
}

// EncodeKey converts raw key bytes back to boundary form.
func EncodeKey(raw []byte) (string, error) {
	if len(raw) != KeySize {
		return "", fmt.Errorf("encode key: %d bytes, want %d: %w", len(raw), KeySize, ErrInvalidKey)
	}
	return keyEncoding.EncodeToString(raw), nil
}

// RandomString returns n characters drawn uniformly from [A-Za-z0-9] using
// the OS's cryptographically secure random source.
func RandomString(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("random string: length %d: %w", n, ErrInvalidInput)
	}

	alphaLen := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", fmt.Errorf("random string: %w", err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
