package vault

import (
	"fmt"
	"time"

	"padlock/krypto"
	"padlock/store"
)

// CipherBox binds authenticated encryption and decryption to one symmetric
// key. It carries no mutable state: the key is fixed at construction and the
// box behaves as a pure encrypt/decrypt pair plus key archival.
type CipherBox struct {
	raw   []byte
	paths store.Paths
}

// NewCipherBox validates the encoded key and returns a box bound to it.
// The key-archive directory is created if missing; an existing directory is
// not an error. Keys that do not decode to exactly 32 raw bytes are rejected
// with krypto.ErrInvalidKey.
func NewCipherBox(key string, keyDir string) (*CipherBox, error) {
	raw, err := krypto.DecodeKey(key)
	if err != nil {
		return nil, err
	}

	paths := store.Paths{KeyDir: keyDir}
	if err := paths.EnsureKeyDir(); err != nil {
		return nil, err
	}

	return &CipherBox{raw: raw, paths: paths}, nil
}

// Encrypt seals plaintext into a timestamped, tamper-evident token.
func (b *CipherBox) Encrypt(plaintext string) (string, error) {
	token, err := krypto.SealToken(b.raw, []byte(plaintext), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return token, nil
}

// Decrypt verifies a token and returns the original plaintext. Tampered or
// malformed tokens fail with krypto.ErrInvalidToken; any other failure
// surfaces as krypto.ErrDecryptionFailed.
func (b *CipherBox) Decrypt(token string) (string, error) {
	plaintext, err := krypto.OpenToken(b.raw, token)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}

// ArchiveKey writes the given encoded key to a new file under the box's
// key-archive directory and returns its path. Removing the file afterwards
// is the caller's responsibility.
func (b *CipherBox) ArchiveKey(key []byte) (string, error) {
	return b.paths.WriteKeyFile(key)
}

// Key returns the box's key in boundary (encoded) form.
func (b *CipherBox) Key() string {
	encoded, _ := krypto.EncodeKey(b.raw)
	return encoded
}

// GenerateKey creates a fresh symmetric key from a 32-character random
// secret, derived exactly as krypto.DeriveKey would derive it. With archive
// set, the encoded key is also written to a new file under keyDir and its
// path returned; otherwise the path is empty.
func GenerateKey(keyDir string, archive bool) (key string, path string, err error) {
	secret, err := krypto.RandomString(32)
	if err != nil {
		return "", "", fmt.Errorf("generate key: %w", err)
	}

	key, err = krypto.DeriveKey(secret)
	if err != nil {
		return "", "", fmt.Errorf("generate key: %w", err)
	}

	if archive {
		paths := store.Paths{KeyDir: keyDir}
		path, err = paths.WriteKeyFile([]byte(key))
		if err != nil {
			return "", "", err
		}
	}

	return key, path, nil
}
