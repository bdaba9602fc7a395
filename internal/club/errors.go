package club

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotAuthenticated = errors.New("club: not authenticated")
	ErrAccountSuspended = errors.New("club: account suspended")
	ErrInvalidRole      = errors.New("club: invalid role")
	ErrScopeDenied      = errors.New("club: outside managed scope")
	ErrInsufficientRole = errors.New("club: insufficient role")
	ErrNotFound         = errors.New("club: not found")
	ErrConflict         = errors.New("club: resource conflict")
	ErrAlreadyDecided   = errors.New("club: request already decided")
	ErrUnknownAction    = errors.New("club: unknown action")
	ErrApplyFailed      = errors.New("club: apply failed")
)

// ValidationError lists the offending fields of a rejected payload.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("club: validation failed: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError builds a ValidationError, or nil when no fields failed.
func NewValidationError(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is a payload validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
