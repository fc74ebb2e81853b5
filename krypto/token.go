package krypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Token wire format, base64url encoded as a whole:
//
//	version (1 byte, 0x80) || timestamp (8 bytes, big-endian unix seconds)
//	|| nonce (12 bytes) || AES-256-GCM ciphertext+tag
//
// The version and timestamp are bound into the GCM tag as additional
// authenticated data, so flipping any byte of a token fails decryption.
const (
	tokenVersion = 0x80

	tokenHeaderSize = 9 // version + timestamp
	gcmNonceSize    = 12
	gcmTagSize      = 16

	minTokenSize = tokenHeaderSize + gcmNonceSize + gcmTagSize
)

// SealToken encrypts plaintext under the raw key, stamping the token with ts.
func SealToken(key, plaintext []byte, ts time.Time) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	header := make([]byte, tokenHeaderSize)
	header[0] = tokenVersion
	binary.BigEndian.PutUint64(header[1:], uint64(ts.Unix()))

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	token := append(header, nonce...)
	token = aead.Seal(token, nonce, plaintext, header)
	return base64.URLEncoding.EncodeToString(token), nil
}

// OpenToken verifies and decrypts a token produced by SealToken.
// Malformed or tampered tokens fail with ErrInvalidToken; any other failure
// on the path is wrapped into ErrDecryptionFailed.
func OpenToken(key []byte, token string) ([]byte, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", ErrInvalidToken)
	}
	if len(raw) < minTokenSize {
		return nil, fmt.Errorf("token too short: %w", ErrInvalidToken)
	}
	if raw[0] != tokenVersion {
		return nil, fmt.Errorf("unsupported token version %#x: %w", raw[0], ErrInvalidToken)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrDecryptionFailed)
	}

	header := raw[:tokenHeaderSize]
	nonce := raw[tokenHeaderSize : tokenHeaderSize+gcmNonceSize]
	ciphertext := raw[tokenHeaderSize+gcmNonceSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return nil, fmt.Errorf("authenticate token: %w", ErrInvalidToken)
	}
	return plaintext, nil
}

// TokenTimestamp extracts the creation time stamped into a token without
// verifying it. Only the structure is checked.
func TokenTimestamp(token string) (time.Time, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil || len(raw) < minTokenSize || raw[0] != tokenVersion {
		return time.Time{}, fmt.Errorf("token timestamp: %w", ErrInvalidToken)
	}
	sec := binary.BigEndian.Uint64(raw[1:tokenHeaderSize])
	return time.Unix(int64(sec), 0).UTC(), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aes-gcm requires a %d-byte key: %w", KeySize, ErrInvalidKey)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return aead, nil
}
