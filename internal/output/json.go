package output

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ALT-F4-LLC/softdesk/internal/service"
)

// ErrorCode represents a machine-readable error classification.
type ErrorCode string

// Error code constants.
const (
	ErrGeneral         ErrorCode = "GENERAL_ERROR"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrValidation      ErrorCode = "VALIDATION_ERROR"
	ErrConflict        ErrorCode = "CONFLICT"
	ErrForbidden       ErrorCode = "FORBIDDEN"
	ErrUnauthenticated ErrorCode = "UNAUTHENTICATED"
)

// Exit code constants.
const (
	ExitSuccess         = 0
	ExitGeneral         = 1
	ExitNotFound        = 2
	ExitValidation      = 3
	ExitConflict        = 4
	ExitForbidden       = 5
	ExitUnauthenticated = 6
)

// ExitCodeForError maps an ErrorCode to its corresponding exit code.
func ExitCodeForError(code ErrorCode) int {
	switch code {
	case ErrNotFound:
		return ExitNotFound
	case ErrValidation:
		return ExitValidation
	case ErrConflict:
		return ExitConflict
	case ErrForbidden:
		return ExitForbidden
	case ErrUnauthenticated:
		return ExitUnauthenticated
	default:
		return ExitGeneral
	}
}

// HTTPStatusForError maps an ErrorCode to an HTTP status.
func HTTPStatusForError(code ErrorCode) int {
	switch code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrForbidden:
		return http.StatusForbidden
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// CodeFor classifies err. Ambiguous identity matches and anything
// unrecognized are reported as ErrGeneral.
func CodeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, service.ErrValidation):
		return ErrValidation
	case errors.Is(err, service.ErrUnauthenticated):
		return ErrUnauthenticated
	case errors.Is(err, service.ErrForbidden):
		return ErrForbidden
	case errors.Is(err, service.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, service.ErrConflict):
		return ErrConflict
	default:
		return ErrGeneral
	}
}

// SuccessEnvelope is the JSON structure for successful responses.
type SuccessEnvelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorEnvelope is the JSON structure for error responses.
type ErrorEnvelope struct {
	OK    bool      `json:"ok"`
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
	Field string    `json:"field,omitempty"`
}

// NewErrorEnvelope builds an error envelope. Validation failures on a single
// field carry the field name.
func NewErrorEnvelope(err error, code ErrorCode) ErrorEnvelope {
	env := ErrorEnvelope{Error: err.Error(), Code: code}
	var fe *service.FieldError
	if errors.As(err, &fe) {
		env.Field = fe.Field
	}
	return env
}

// writeJSONSuccess writes a success envelope to w.
func writeJSONSuccess(w io.Writer, data any, message string) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(SuccessEnvelope{
		OK:      true,
		Data:    data,
		Message: message,
	})
}

// writeJSONError writes an error envelope to w.
func writeJSONError(w io.Writer, err error, code ErrorCode) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(NewErrorEnvelope(err, code))
}
