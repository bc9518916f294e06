package service

import (
	"errors"
	"fmt"

	"github.com/ALT-F4-LLC/softdesk/internal/access"
	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/resolve"
)

// Error kinds returned by Service methods. Test with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = db.ErrNotFound
	ErrConflict        = db.ErrConflict
	ErrForbidden       = access.ErrForbidden
	ErrAmbiguous       = resolve.ErrAmbiguous
)

// ErrBadCredentials is returned by Login for an unknown user or wrong password.
var ErrBadCredentials = fmt.Errorf("%w: wrong username or password", ErrValidation)

// FieldError is a validation failure on a single input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *FieldError) Unwrap() error {
	return ErrValidation
}
