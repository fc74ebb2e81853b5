package auth

import (
	"errors"
	"strings"
	"unicode"

	"github.com/nbutton23/zxcvbn-go"
)

const specialChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_{|}~`"

// ValidateOptions tunes master-password validation.
type ValidateOptions struct {
	MinLength      int
	MinZXCVBNScore int
}

// DefaultValidateOptions returns the policy applied to user-chosen master
// passwords. Generated keys are random and bypass the policy entirely.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{
		MinLength:      12,
		MinZXCVBNScore: 3,
	}
}

// ValidateMasterPassword applies composition rules plus a zxcvbn strength
// floor. It returns the first requirement the password misses.
func ValidateMasterPassword(pw string, opts ValidateOptions) error {
	if len(pw) < opts.MinLength {
		return errors.New("password is too short")
	}
	if !hasUpper(pw) {
		return errors.New("password must include an uppercase letter")
	}
	if !hasDigit(pw) {
		return errors.New("password must include a digit")
	}
	if !hasSpecial(pw) {
		return errors.New("password must include a special character")
	}

	if zxcvbn.PasswordStrength(pw, nil).Score < opts.MinZXCVBNScore {
		return errors.New("password is too guessable")
	}
	return nil
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasSpecial(s string) bool {
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			return true
		}
	}
	return false
}
