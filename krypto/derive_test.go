package krypto_test

import (
	"errors"
	"regexp"
	"testing"

	"padlock/krypto"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	first, err := krypto.DeriveKey("master-pw-1")
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	second, err := krypto.DeriveKey("master-pw-1")
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}

	if first != second {
		t.Fatalf("repeated derivation differs: %q vs %q", first, second)
	}
	if len(first) != krypto.EncodedKeySize {
		t.Fatalf("expected %d-character key, got %d", krypto.EncodedKeySize, len(first))
	}
}

func TestDeriveKeyDistinctSecrets(t *testing.T) {
	a, err := krypto.DeriveKey("pw-a")
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	b, err := krypto.DeriveKey("pw-b")
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	if a == b {
		t.Fatal("different secrets produced the same key")
	}
}

func TestDeriveKeyEmptySecret(t *testing.T) {
	if _, err := krypto.DeriveKey(""); !errors.Is(err, krypto.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDecodeKeyRoundTrip(t *testing.T) {
	encoded, err := krypto.DeriveKey("some secret")
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}

	raw, err := krypto.DecodeKey(encoded)
	if err != nil {
		t.Fatalf("DecodeKey returned error: %v", err)
	}
	if len(raw) != krypto.KeySize {
		t.Fatalf("decoded key is %d bytes, want %d", len(raw), krypto.KeySize)
	}

	back, err := krypto.EncodeKey(raw)
	if err != nil {
		t.Fatalf("EncodeKey returned error: %v", err)
	}
	if back != encoded {
		t.Fatalf("encode/decode round trip changed the key: %q vs %q", back, encoded)
	}
}

func TestDecodeKeyRejectsBadMaterial(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"too short", "c2hvcnQ="},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := krypto.DecodeKey(tc.encoded); !errors.Is(err, krypto.ErrInvalidKey) {
				t.Fatalf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

func TestRandomStringLengthAndAlphabet(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9]+$`)

	for _, n := range []int{1, 5, 10, 32, 64} {
		s, err := krypto.RandomString(n)
		if err != nil {
			t.Fatalf("RandomString(%d) returned error: %v", n, err)
		}
		if len(s) != n {
			t.Fatalf("RandomString(%d) returned %d characters", n, len(s))
		}
		if !pattern.MatchString(s) {
			t.Fatalf("RandomString(%d) produced characters outside the alphabet: %q", n, s)
		}
	}
}

func TestRandomStringInvalidLength(t *testing.T) {
	for _, n := range []int{0, -1, -32} {
		if _, err := krypto.RandomString(n); !errors.Is(err, krypto.ErrInvalidInput) {
			t.Fatalf("RandomString(%d): expected ErrInvalidInput, got %v", n, err)
		}
	}
}

func TestRandomStringVaries(t *testing.T) {
	a, err := krypto.RandomString(32)
	if err != nil {
		t.Fatalf("RandomString returned error: %v", err)
	}
	b, err := krypto.RandomString(32)
	if err != nil {
		t.Fatalf("RandomString returned error: %v", err)
	}
	if a == b {
		t.Fatal("two generated strings are identical")
	}
}

func TestDeriveKeyArgon2id(t *testing.T) {
	salt, err := krypto.NewRandomSalt()
	if err != nil {
		t.Fatalf("NewRandomSalt returned error: %v", err)
	}

	params := krypto.Argon2Params{MemoryMB: 8, Time: 1, Parallelism: 1}

	first, err := krypto.DeriveKeyArgon2id("master", salt, params)
	if err != nil {
		t.Fatalf("DeriveKeyArgon2id returned error: %v", err)
	}
	second, err := krypto.DeriveKeyArgon2id("master", salt, params)
	if err != nil {
		t.Fatalf("DeriveKeyArgon2id returned error: %v", err)
	}
	if first != second {
		t.Fatal("argon2 derivation is not deterministic for a fixed salt")
	}

	if _, err := krypto.DecodeKey(first); err != nil {
		t.Fatalf("argon2 key does not decode: %v", err)
	}

	if _, err := krypto.DeriveKeyArgon2id("", salt, params); !errors.Is(err, krypto.ErrInvalidInput) {
		t.Fatalf("empty secret: expected ErrInvalidInput, got %v", err)
	}
	if _, err := krypto.DeriveKeyArgon2id("master", salt[:4], params); !errors.Is(err, krypto.ErrInvalidInput) {
		t.Fatalf("short salt: expected ErrInvalidInput, got %v", err)
	}
}
