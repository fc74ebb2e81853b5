package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"padlock/auth"
	"padlock/internal/config"
	"padlock/internal/service"
	"padlock/internal/vault"
	"padlock/krypto"
)

var (
	headline = color.New(color.FgBlue)
	success  = color.New(color.FgGreen)
	warning  = color.New(color.FgYellow)
	failure  = color.New(color.FgRed)
)

// ui drives the interactive menu over a service and configuration.
type ui struct {
	svc *service.Service
	cfg config.Config
	in  *bufio.Reader
}

func newUI(svc *service.Service, cfg config.Config) *ui {
	return &ui{
		svc: svc,
		cfg: cfg,
		in:  bufio.NewReader(os.Stdin),
	}
}

// start unlocks the store, then runs the menu loop. An empty store triggers
// the first-run master-password setup instead of an unlock prompt.
func (u *ui) start() error {
	has, err := u.svc.HasEntries()
	if err != nil {
		return err
	}

	var key string
	if !has {
		key, err = u.createMasterPassword()
	} else {
		key, err = u.promptUnlock()
	}
	if err != nil || key == "" {
		return err
	}

	box, err := vault.NewCipherBox(key, u.cfg.KeyDir)
	if err != nil {
		return fmt.Errorf("construct cipher box: %w", err)
	}
	u.svc.Unlock(box)

	return u.menu()
}

// createMasterPassword handles the first run: the user either types a master
// password (checked against the strength policy) or lets padlock generate a
// key, which is printed once and archived to a file.
func (u *ui) createMasterPassword() (string, error) {
	warning.Println("Welcome to padlock. You don't have any passwords yet.")
	warning.Println("Create a master password to start, or use the options below.")
	headline.Println("  1. Generate a key automatically")
	headline.Println("  2. Exit")

	input, err := u.promptLine("Master password (or option): ")
	if err != nil {
		return "", err
	}

	switch input {
	case "1":
		key, path, err := vault.GenerateKey(u.cfg.KeyDir, true)
		if err != nil {
			return "", fmt.Errorf("generate key: %w", err)
		}
		fmt.Println()
		warning.Println("Your key has been generated. Save it carefully: if you lose it,")
		warning.Println("your passwords cannot be recovered.")
		success.Printf("Key: %s\n", key)
		warning.Println("The key was also archived to a file; move it somewhere safe and")
		warning.Println("remove the file afterwards.")
		headline.Printf("Path: %s\n\n", path)
		return key, nil
	case "2":
		headline.Println("Exiting...")
		return "", nil
	default:
		if input == "" {
			failure.Println("Master password cannot be empty")
			return "", nil
		}
		if err := auth.ValidateMasterPassword(input, auth.DefaultValidateOptions()); err != nil {
			failure.Printf("Master password rejected: %v\n", err)
			return "", nil
		}
		key, err := krypto.DeriveKey(input)
		if err != nil {
			return "", err
		}
		success.Println("Master password set. Do not forget it: it cannot be recovered.")
		return key, nil
	}
}

// promptUnlock asks for the master password on subsequent runs. Pasting a
// previously generated key (44 characters) unlocks directly; anything else
// is treated as a master password and derived.
func (u *ui) promptUnlock() (string, error) {
	secret, err := u.promptSecret("Enter your master password: ")
	if err != nil {
		return "", err
	}
	if secret == "" {
		failure.Println("Master password cannot be empty")
		return "", nil
	}

	if len(secret) == krypto.EncodedKeySize {
		if _, err := krypto.DecodeKey(secret); err == nil {
			return secret, nil
		}
	}
	return krypto.DeriveKey(secret)
}

func (u *ui) menu() error {
	for {
		fmt.Println()
		headline.Println("1. Add a password")
		headline.Println("2. View a password")
		headline.Println("3. View all domains")
		headline.Println("4. Remove a password")
		headline.Println("5. Exit")

		choice, err := u.promptLine("Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			u.addPassword()
		case "2":
			u.viewPassword()
		case "3":
			u.viewAllDomains()
		case "4":
			u.removePassword()
		case "5":
			headline.Println("Exiting...")
			return nil
		default:
			failure.Println("Invalid choice, please try again")
		}
	}
}

func (u *ui) addPassword() {
	domain, err := u.promptDomain()
	if err != nil {
		failure.Printf("Error reading domain: %v\n", err)
		return
	}

	password, err := u.promptSecret("Enter the password: ")
	if err != nil {
		failure.Printf("Error reading password: %v\n", err)
		return
	}
	if strings.TrimSpace(password) == "" {
		failure.Println("Password cannot be empty")
		return
	}

	switch err := u.svc.Add(domain, password, false); {
	case err == nil:
		success.Println("Password saved successfully")
	case errors.Is(err, service.ErrDomainExists):
		failure.Println("Password already exists for this domain")
	default:
		failure.Printf("Error saving password: %v\n", err)
	}
}

func (u *ui) viewPassword() {
	domain, err := u.promptDomain()
	if err != nil {
		failure.Printf("Error reading domain: %v\n", err)
		return
	}

	password, err := u.svc.Get(domain)
	switch {
	case err == nil:
		success.Printf("Password for %s: ", service.NormalizeDomain(domain))
		warning.Println(password)
	case errors.Is(err, service.ErrNotFound):
		failure.Println("No password found for this domain")
	case errors.Is(err, krypto.ErrInvalidToken), errors.Is(err, krypto.ErrDecryptionFailed):
		failure.Println("Cannot decrypt this entry; was it stored under a different key?")
	default:
		failure.Printf("Error retrieving password: %v\n", err)
	}
}

func (u *ui) viewAllDomains() {
	domains, err := u.svc.List()
	if err != nil {
		failure.Printf("Error listing domains: %v\n", err)
		return
	}
	if len(domains) == 0 {
		warning.Println("No passwords stored yet")
		return
	}

	headline.Println("Stored domains:")
	for _, domain := range domains {
		warning.Printf("- %s\n", domain)
	}
}

func (u *ui) removePassword() {
	domain, err := u.promptDomain()
	if err != nil {
		failure.Printf("Error reading domain: %v\n", err)
		return
	}

	confirm, err := u.promptLine(warning.Sprintf("Are you sure you want to delete the password for %s? (y/n): ", service.NormalizeDomain(domain)))
	if err != nil {
		failure.Printf("Error reading confirmation: %v\n", err)
		return
	}
	if !strings.EqualFold(confirm, "y") {
		headline.Println("Deletion cancelled")
		return
	}

	switch err := u.svc.Remove(domain); {
	case err == nil:
		success.Println("Password removed successfully")
	case errors.Is(err, service.ErrNotFound):
		failure.Println("No password found for this domain")
	default:
		failure.Printf("Error removing password: %v\n", err)
	}
}

func (u *ui) promptDomain() (string, error) {
	for {
		domain, err := u.promptLine("Enter the domain: ")
		if err != nil {
			return "", err
		}
		if domain == "" {
			failure.Println("Domain cannot be empty")
			continue
		}
		return domain, nil
	}
}

func (u *ui) promptLine(prompt string) (string, error) {
	headline.Print(prompt)
	line, err := u.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when stdin is a terminal, falling back to
// a plain line read otherwise (pipes, tests).
func (u *ui) promptSecret(prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return u.promptLine(prompt)
	}

	headline.Print(prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
