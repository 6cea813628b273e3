package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Scribax/followers-shop/internal/apperr"
)

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	igUsernameRegex = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)
)

func validEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// checkPasswordStrength applies the strength rules in fixed order: length,
// uppercase, lowercase, digit, special. The first violated rule names the
// error.
func checkPasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", apperr.ErrValidation)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("%w: password must contain an uppercase letter", apperr.ErrValidation)
	case !hasLower:
		return fmt.Errorf("%w: password must contain a lowercase letter", apperr.ErrValidation)
	case !hasDigit:
		return fmt.Errorf("%w: password must contain a digit", apperr.ErrValidation)
	case !hasSpecial:
		return fmt.Errorf("%w: password must contain a special character", apperr.ErrValidation)
	}
	return nil
}

func validIGUsername(name string) bool {
	return igUsernameRegex.MatchString(name)
}
