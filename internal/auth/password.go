package auth

import (
	"unicode"

	"github.com/snapgrid/snapgrid-be/internal/apperrors"
)

const minPasswordLength = 6

// ValidatePassword checks a candidate password against the account policy:
// at least 6 characters, at least one uppercase letter, at least one digit.
// It returns a *apperrors.PolicyError listing every violated rule, or nil
// when the password passes. Validation is pure; presentation pacing is the
// caller's concern.
func ValidatePassword(password string) error {
	var violations []string

	if len(password) < minPasswordLength {
		violations = append(violations, "must be at least 6 characters")
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a digit")
	}

	if len(violations) > 0 {
		return &apperrors.PolicyError{Violations: violations}
	}
	return nil
}
