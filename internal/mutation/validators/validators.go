// Package validators provides the stateless predicates that make up a field's
// validation chain. Every Validator is total: IsValid never panics, and a
// value of the wrong type yields false rather than an error.
package validators

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Default messages reported for each built-in validator.
const (
	msgRequired = "is required"
	msgNotBlank = "must not be blank"
)

// Validator checks one aspect of a bound field value.
type Validator interface {
	// IsValid reports whether value satisfies the validator.
	IsValid(value any) bool

	// Message describes the failure when IsValid returns false.
	Message() string
}

// Compile-time interface checks.
var (
	_ Validator = requiredValidator{}
	_ Validator = notBlankValidator{}
	_ Validator = (*InstanceValidator)(nil)
	_ Validator = (*TagValidator)(nil)
	_ Validator = (*FuncValidator)(nil)
)

type requiredValidator struct{}

// Required returns a validator that fails only for absent values: an untyped
// nil, or a nil pointer, map, slice, channel, func or interface. Zero values
// such as "", false and 0 are accepted.
func Required() Validator { return requiredValidator{} }

func (requiredValidator) IsValid(value any) bool { return !IsAbsent(value) }
func (requiredValidator) Message() string        { return msgRequired }

type notBlankValidator struct{}

// NotBlank returns a validator that fails iff value is the empty string. Any
// other value, including non-strings, passes; compose it after a type check.
func NotBlank() Validator { return notBlankValidator{} }

func (notBlankValidator) IsValid(value any) bool {
	s, ok := value.(string)
	return !ok || s != ""
}

func (notBlankValidator) Message() string { return msgNotBlank }

// InstanceValidator accepts values whose dynamic type is exactly the expected
// type, or implements it when the expected type is an interface.
type InstanceValidator struct {
	expected reflect.Type
}

// Instance returns a validator for the given expected type. A nil type
// matches nothing.
func Instance(expected reflect.Type) *InstanceValidator {
	return &InstanceValidator{expected: expected}
}

// InstanceOf returns a validator for the type parameter T.
//
//	validators.InstanceOf[string]()
//	validators.InstanceOf[fmt.Stringer]()
func InstanceOf[T any]() *InstanceValidator {
	return Instance(reflect.TypeFor[T]())
}

// Type returns the expected type.
func (v *InstanceValidator) Type() reflect.Type { return v.expected }

// IsValid reports whether value is an instance of the expected type. No
// conversion is attempted: a bool is never a string, and []int is not [3]int.
func (v *InstanceValidator) IsValid(value any) bool {
	if v.expected == nil || value == nil {
		return false
	}
	got := reflect.TypeOf(value)
	if got == v.expected {
		return true
	}
	return v.expected.Kind() == reflect.Interface && got.Implements(v.expected)
}

func (v *InstanceValidator) Message() string {
	return fmt.Sprintf("must be of type %s", typeName(v.expected))
}

// sharedValidate is the process-wide go-playground validator. Validate is
// safe for concurrent use and caches parsed tags.
var sharedValidate = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// TagValidator delegates to a go-playground/validator tag such as "email" or
// "url". Values the tag cannot handle (or panics on) are reported invalid.
type TagValidator struct {
	tag     string
	message string
}

// Tag returns a validator for the given go-playground/validator tag.
func Tag(tag string) *TagValidator {
	return &TagValidator{tag: tag, message: fmt.Sprintf("must be a valid %s", tag)}
}

// WithMessage returns a copy of v reporting message on failure.
func (v *TagValidator) WithMessage(message string) *TagValidator {
	return &TagValidator{tag: v.tag, message: message}
}

func (v *TagValidator) IsValid(value any) (ok bool) {
	if value == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return sharedValidate().Var(value, v.tag) == nil
}

func (v *TagValidator) Message() string { return v.message }

// FuncValidator adapts a plain predicate.
type FuncValidator struct {
	fn      func(any) bool
	message string
}

// Func returns a validator backed by fn. A nil fn rejects every value.
func Func(message string, fn func(any) bool) *FuncValidator {
	return &FuncValidator{fn: fn, message: message}
}

func (v *FuncValidator) IsValid(value any) (ok bool) {
	if v.fn == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return v.fn(value)
}

func (v *FuncValidator) Message() string { return v.message }

// IsAbsent reports whether value is the absence sentinel: an untyped nil or a
// typed nil of a nillable kind.
func IsAbsent(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// typeName renders t for error messages.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
