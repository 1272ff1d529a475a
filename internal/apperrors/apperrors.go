package apperrors

import (
	"errors"
	"strings"
)

// Sentinel errors for the outcomes the gate and grid surface to users. All of
// them are recovered where they occur and reported as notifications; none is
// fatal and none is retried automatically.
var (
	ErrValidation = errors.New("required field is missing")
	ErrNotFound   = errors.New("user not recognized")
	ErrAuth       = errors.New("incorrect password")
	ErrDuplicate  = errors.New("user already exists")
	ErrTransport  = errors.New("remote store unavailable")
)

// PolicyError reports every password-composition rule the candidate password
// failed, not just the first one.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return "password policy violated: " + strings.Join(e.Violations, "; ")
}
