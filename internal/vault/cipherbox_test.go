package vault_test

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"padlock/internal/vault"
	"padlock/krypto"
)

func deriveKey(t *testing.T, secret string) string {
	t.Helper()
	key, err := krypto.DeriveKey(secret)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	return key
}

func TestNewCipherBoxValidKey(t *testing.T) {
	keyDir := filepath.Join(t.TempDir(), "keys")

	box, err := vault.NewCipherBox(deriveKey(t, "pw"), keyDir)
	if err != nil {
		t.Fatalf("NewCipherBox returned error: %v", err)
	}
	if box.Key() != deriveKey(t, "pw") {
		t.Fatal("box does not report the key it was constructed with")
	}

	if _, err := os.Stat(keyDir); err != nil {
		t.Fatalf("expected key directory to exist: %v", err)
	}
}

func TestNewCipherBoxInvalidKey(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not base64", "***"},
		{"short", "c2hvcnQta2V5"},
		{"long", strings.Repeat("A", 64)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := vault.NewCipherBox(tc.key, t.TempDir()); !errors.Is(err, krypto.ErrInvalidKey) {
				t.Fatalf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	box, err := vault.NewCipherBox(deriveKey(t, "pw"), t.TempDir())
	if err != nil {
		t.Fatalf("NewCipherBox returned error: %v", err)
	}

	token, err := box.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	if token == "hunter2" {
		t.Fatal("token equals the plaintext")
	}

	plain, err := box.Decrypt(token)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if plain != "hunter2" {
		t.Fatalf("round trip mismatch: got %q", plain)
	}
}

func TestDecryptWithDifferentKey(t *testing.T) {
	dir := t.TempDir()

	boxA, err := vault.NewCipherBox(deriveKey(t, "key-a"), dir)
	if err != nil {
		t.Fatalf("NewCipherBox returned error: %v", err)
	}
	boxB, err := vault.NewCipherBox(deriveKey(t, "key-b"), dir)
	if err != nil {
		t.Fatalf("NewCipherBox returned error: %v", err)
	}

	token, err := boxA.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	if _, err := boxB.Decrypt(token); !errors.Is(err, krypto.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken under a different key, got %v", err)
	}
}

func TestArchiveKey(t *testing.T) {
	keyDir := t.TempDir()
	key := deriveKey(t, "archive-me")

	box, err := vault.NewCipherBox(key, keyDir)
	if err != nil {
		t.Fatalf("NewCipherBox returned error: %v", err)
	}

	path, err := box.ArchiveKey([]byte(key))
	if err != nil {
		t.Fatalf("ArchiveKey returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archived key: %v", err)
	}
	if string(data) != key {
		t.Fatalf("archived bytes do not equal the encoded key")
	}
}

func TestGenerateKey(t *testing.T) {
	keyDir := t.TempDir()

	key, path, err := vault.GenerateKey(keyDir, false)
	if err != nil {
		t.Fatalf("GenerateKey returned error: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no archive path, got %q", path)
	}
	if _, err := krypto.DecodeKey(key); err != nil {
		t.Fatalf("generated key does not decode: %v", err)
	}
}

func TestGenerateKeyWithArchive(t *testing.T) {
	keyDir := t.TempDir()
	namePattern := regexp.MustCompile(`^key_[A-Za-z0-9]{5}\.key$`)

	key, path, err := vault.GenerateKey(keyDir, true)
	if err != nil {
		t.Fatalf("GenerateKey returned error: %v", err)
	}
	if path == "" {
		t.Fatal("expected an archive path")
	}
	if !namePattern.MatchString(filepath.Base(path)) {
		t.Fatalf("unexpected archive file name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archived key: %v", err)
	}
	if string(data) != key {
		t.Fatal("archive contents do not equal the returned key")
	}

	// A generated key must open a working box.
	box, err := vault.NewCipherBox(key, keyDir)
	if err != nil {
		t.Fatalf("NewCipherBox rejected a generated key: %v", err)
	}
	token, err := box.Encrypt("probe")
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	plain, err := box.Decrypt(token)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if plain != "probe" {
		t.Fatalf("round trip mismatch: got %q", plain)
	}
}

func TestGenerateKeysAreDistinct(t *testing.T) {
	keyDir := t.TempDir()

	first, firstPath, err := vault.GenerateKey(keyDir, true)
	if err != nil {
		t.Fatalf("GenerateKey returned error: %v", err)
	}
	second, secondPath, err := vault.GenerateKey(keyDir, true)
	if err != nil {
		t.Fatalf("GenerateKey returned error: %v", err)
	}

	if first == second {
		t.Fatal("two generated keys are identical")
	}
	if firstPath == secondPath {
		t.Fatal("two archival calls produced the same path")
	}
}
