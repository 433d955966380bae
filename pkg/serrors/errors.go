package serrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// BaseError is a structured, user-facing error. Code is a stable machine
// identifier; Message is surfaced to the caller verbatim.
type BaseError struct {
	Code         string
	Message      string
	TemplateData map[string]string
}

func NewError(code, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	e.TemplateData = data
	return e
}

// Code extracts the structured error code from err, or "" when err is not a
// BaseError anywhere in its chain.
func Code(err error) string {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// FieldError is a violation attached to a single named field.
type FieldError struct {
	BaseError
	Field string
}

func NewFieldRequiredError(field string) *FieldError {
	return &FieldError{
		BaseError: BaseError{
			Code:    "FIELD_REQUIRED",
			Message: fmt.Sprintf("%s is required", field),
		},
		Field: field,
	}
}

// ValidationErrors aggregates per-field violations, keyed by field name.
type ValidationErrors map[string]*FieldError

func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, field := range v.Fields() {
		msgs = append(msgs, v[field].Message)
	}
	return strings.Join(msgs, "; ")
}
