package krypto

import "errors"

var (
	// ErrInvalidInput reports an empty or out-of-range argument, detected
	// before any crypto or I/O runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidKey reports key material that does not decode to KeySize bytes.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidToken reports a token that failed its integrity check or is
	// structurally malformed. Callers should treat it as "cannot decrypt",
	// not as data loss.
	ErrInvalidToken = errors.New("invalid token")

	// ErrDecryptionFailed wraps any other failure on the decryption path.
	ErrDecryptionFailed = errors.New("decryption failed")
)
