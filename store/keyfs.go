package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"padlock/krypto"
)

const (
	keyFilePrefix    = "key_"
	keyFileExt       = ".key"
	keyFileSuffixLen = 5
)

// Paths locates key-archive artifacts on disk.
type Paths struct {
	KeyDir string
}

// EnsureKeyDir creates the key-archive directory if it is missing.
// Calling it when the directory already exists is not an error.
func (p Paths) EnsureKeyDir() error {
	if p.KeyDir == "" {
		return errors.New("key directory not specified")
	}
	if err := os.MkdirAll(p.KeyDir, 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}
	return nil
}

// WriteKeyFile archives one encoded key into a new file under the key
// directory, named key_<5 random alphanumerics>.key. The file is created
// exclusively so concurrent archival cannot clobber an existing key; on a
// name collision a fresh suffix is drawn. Returns the path of the new file.
func (p Paths) WriteKeyFile(encodedKey []byte) (string, error) {
	if len(encodedKey) == 0 {
		return "", fmt.Errorf("archive key: empty key: %w", krypto.ErrInvalidInput)
	}
	if err := p.EnsureKeyDir(); err != nil {
		return "", err
	}

	for {
		suffix, err := krypto.RandomString(keyFileSuffixLen)
		if err != nil {
			return "", fmt.Errorf("archive key: %w", err)
		}
		path := filepath.Join(p.KeyDir, keyFilePrefix+suffix+keyFileExt)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", fmt.Errorf("create key file %s: %w", path, err)
		}

		if _, err := f.Write(encodedKey); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write key file %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("close key file %s: %w", path, err)
		}
		return path, nil
	}
}
