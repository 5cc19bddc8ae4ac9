package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/formco/backend/internal/domain"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	PasswordMinLength = 8

	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks account fields and reports every problem at once
func ValidateRegistration(email, password, name string) error {
	var errs domain.ValidationErrors

	if !CompiledPatterns.Email.MatchString(NormalizeEmail(email)) {
		errs.Add("email", "email must be a valid email address")
	}

	if len(password) < PasswordMinLength {
		errs.Add("password", "password must be at least %d characters", PasswordMinLength)
	} else if !hasLetterAndDigit(password) {
		errs.Add("password", "password must contain a letter and a digit")
	}

	name = strings.TrimSpace(name)
	if n := len([]rune(name)); n < NameMinLength || n > NameMaxLength {
		errs.Add("name", "name must be between %d and %d characters", NameMinLength, NameMaxLength)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
