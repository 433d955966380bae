package request

import (
	"errors"
	"strings"

	gerrors "github.com/go-faster/errors"

	"github.com/mexilacteos/itdesk/pkg/serrors"
)

const (
	CodeIllegalTransition = "REQUEST_ILLEGAL_TRANSITION"
	CodeValidationFailed  = "REQUEST_VALIDATION_FAILED"
	CodeImmutableField    = "REQUEST_IMMUTABLE_FIELD"
	CodeMissingAssignment = "REQUEST_MISSING_ASSIGNMENT"
)

var (
	ErrNotFound = gerrors.New("request not found")
	// ErrStaleVersion is returned when an update loses the optimistic
	// version race; the caller must re-read before retrying.
	ErrStaleVersion = gerrors.New("request was modified concurrently, re-read and retry")
	ErrFolioTaken   = gerrors.New("folio already exists")
)

func NewIllegalTransitionError(message string) error {
	return serrors.NewError(CodeIllegalTransition, message)
}

func NewImmutableFieldError(fields []string) error {
	return serrors.NewError(
		CodeImmutableField,
		"Request details can only be modified in draft state.",
	).WithTemplateData(map[string]string{
		"fields": strings.Join(fields, ", "),
	})
}

func NewMissingAssignmentError() error {
	return serrors.NewError(
		CodeMissingAssignment,
		"Please assign an IT user before starting work.",
	)
}

// ValidationError carries every violated field of a validation pass.
type ValidationError struct {
	serrors.BaseError
	Violations []string
}

func NewValidationError(message string, violations ...string) *ValidationError {
	return &ValidationError{
		BaseError: serrors.BaseError{
			Code:    CodeValidationFailed,
			Message: message,
		},
		Violations: violations,
	}
}

// Unwrap exposes the embedded BaseError so serrors.Code sees it through
// errors.As.
func (e *ValidationError) Unwrap() error {
	return &e.BaseError
}

func IsIllegalTransition(err error) bool {
	return serrors.Code(err) == CodeIllegalTransition
}

func IsValidationFailed(err error) bool {
	return serrors.Code(err) == CodeValidationFailed
}

func IsImmutableFieldViolation(err error) bool {
	return serrors.Code(err) == CodeImmutableField
}

func IsMissingAssignment(err error) bool {
	return serrors.Code(err) == CodeMissingAssignment
}

// AsValidationError unwraps err into a ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
