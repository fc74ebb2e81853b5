package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"padlock/internal/db"
	"padlock/internal/vault"
	"padlock/krypto"
)

var (
	// ErrLocked reports an operation attempted before a key was attached.
	ErrLocked = errors.New("store locked")

	// ErrDomainExists reports an Add for a domain that already has a password.
	ErrDomainExists = errors.New("password already exists for this domain")

	// ErrNotFound reports a lookup or delete for an unknown domain.
	ErrNotFound = errors.New("no password found for this domain")
)

// Service exposes the secrets store's high-level operations: encrypted
// add/view/list/remove keyed by domain. Construction binds the storage
// backend; Unlock attaches the CipherBox once the user's key is known.
type Service struct {
	db  *db.DB
	box *vault.CipherBox
}

// New returns a service bound to an open database.
func New(database *db.DB) *Service {
	return &Service{db: database}
}

// Unlock attaches the CipherBox used for all subsequent encrypt/decrypt.
func (s *Service) Unlock(box *vault.CipherBox) {
	s.box = box
}

// Unlocked reports whether a key is attached.
func (s *Service) Unlocked() bool {
	return s.box != nil
}

// HasEntries reports whether any password has been stored yet. It is how
// the caller decides between first-run setup and a normal unlock.
func (s *Service) HasEntries() (bool, error) {
	n, err := s.db.CountPasswords()
	if err != nil {
		return false, fmt.Errorf("count entries: %w", err)
	}
	return n > 0, nil
}

// NormalizeDomain canonicalizes a domain for use as the lookup key.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// Add encrypts plaintext and stores it under the normalized domain.
func (s *Service) Add(domain, plaintext string, expires bool) error {
	if s.box == nil {
		return ErrLocked
	}

	domain = NormalizeDomain(domain)
	if domain == "" {
		return fmt.Errorf("add: empty domain: %w", krypto.ErrInvalidInput)
	}
	if strings.TrimSpace(plaintext) == "" {
		return fmt.Errorf("add: empty password: %w", krypto.ErrInvalidInput)
	}

	if _, err := s.db.GetPasswordByDomain(domain); err == nil {
		return ErrDomainExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check domain: %w", err)
	}

	token, err := s.box.Encrypt(plaintext)
	if err != nil {
		return err
	}

	if _, err := s.db.InsertPassword(domain, token, expires); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// Get returns the decrypted password for a domain.
func (s *Service) Get(domain string) (string, error) {
	if s.box == nil {
		return "", ErrLocked
	}

	row, err := s.db.GetPasswordByDomain(NormalizeDomain(domain))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("fetch password: %w", err)
	}

	return s.box.Decrypt(row.Password)
}

// List returns all stored domains.
func (s *Service) List() ([]string, error) {
	domains, err := s.db.ListDomains()
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return domains, nil
}

// Remove deletes the password stored for a domain.
func (s *Service) Remove(domain string) error {
	err := s.db.DeletePasswordByDomain(NormalizeDomain(domain))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("remove password: %w", err)
	}
	return nil
}
