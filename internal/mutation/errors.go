package mutation

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	// ErrExecuteNotImplemented is wrapped by ExecuteNotImplementedError.
	ErrExecuteNotImplemented = errors.New("execute not implemented")

	// ErrValidation is wrapped by both ValidationError and
	// FailedValidationError.
	ErrValidation = errors.New("validation error")

	ErrInvalidName       = errors.New("invalid mutation name")
	ErrInvalidField      = errors.New("invalid field declaration")
	ErrDuplicateField    = errors.New("duplicate field declaration")
	ErrNilMutation       = errors.New("nil mutation")
	ErrAlreadyRegistered = errors.New("mutation already registered")
	ErrNotFound          = errors.New("mutation not found")
)

// FieldError is a single failing field and the message of the first
// validator it failed.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the per-call error mapping, ordered by schema declaration. An
// empty Errors means the input was valid.
type Errors []FieldError

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e.Get(field)
	return ok
}

// Get returns the message recorded for field.
func (e Errors) Get(field string) (string, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// Fields returns the failing field names in schema order.
func (e Errors) Fields() []string {
	names := make([]string, len(e))
	for i, fe := range e {
		names[i] = fe.Field
	}
	return names
}

// Map returns the errors keyed by field name. Nil for an empty Errors.
func (e Errors) Map() map[string]string {
	if len(e) == 0 {
		return nil
	}
	m := make(map[string]string, len(e))
	for _, fe := range e {
		m[fe.Field] = fe.Message
	}
	return m
}

func (e Errors) String() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// ExecuteNotImplementedError is returned by New when a mutation is declared
// without an execute function. It is structural and never returned by Run.
type ExecuteNotImplementedError struct {
	Mutation string
}

func (e *ExecuteNotImplementedError) Error() string {
	return fmt.Sprintf("mutation %q: %s", e.Mutation, ErrExecuteNotImplemented.Error())
}

func (e *ExecuteNotImplementedError) Unwrap() error {
	return ErrExecuteNotImplemented
}

// ValidationError is returned by Run with RaiseOnError when the input fails
// validation. Use errors.As to access the per-field Errors.
type ValidationError struct {
	Mutation string
	Errors   Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mutation %q: %s: %s", e.Mutation, ErrValidation.Error(), e.Errors)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FailedValidationError is returned by Validate with RaiseOnError. It is a
// distinct type from ValidationError so callers can tell a check-only call
// from a run.
type FailedValidationError struct {
	Mutation string
	Errors   Errors
}

func (e *FailedValidationError) Error() string {
	return fmt.Sprintf("mutation %q failed validation: %s", e.Mutation, e.Errors)
}

func (e *FailedValidationError) Unwrap() error {
	return ErrValidation
}

// FieldErrors extracts the per-field errors from a ValidationError or
// FailedValidationError anywhere in err's chain.
func FieldErrors(err error) (Errors, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Errors, true
	}
	var ferr *FailedValidationError
	if errors.As(err, &ferr) {
		return ferr.Errors, true
	}
	return nil, false
}
