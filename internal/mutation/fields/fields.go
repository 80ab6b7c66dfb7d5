// Package fields declares the typed inputs of a mutation. A Field bundles the
// ordered validator chain for its kind together with the required/default
// policy; the chain order is the evaluation order used during validation.
//
//	fields.Char(fields.Required())
//	fields.Boolean(fields.Default(false))
package fields

import (
	"github.com/jsamuelsen11/mutations/internal/mutation/validators"
)

// Kind names reported by the built-in fields.
const (
	KindChar     = "char"
	KindBoolean  = "boolean"
	KindInteger  = "integer"
	KindEmail    = "email"
	KindInstance = "instance"
)

// Field is a single schema declaration.
type Field interface {
	// Kind returns a short name for the field's semantic type.
	Kind() string

	// Required reports whether the caller must supply a value.
	Required() bool

	// Default returns the value bound when the caller omits the field.
	// explicit is false when the value is the kind's implicit zero value.
	Default() (value any, explicit bool)

	// Validators returns the validator chain in evaluation order. A leading
	// validators.Required() is present iff Required() is true.
	Validators() []validators.Validator

	// TypeCheck returns the validator that decides whether a value has the
	// field's type. It is used to vet explicit defaults at declaration time.
	TypeCheck() validators.Validator
}

// Option configures a field.
type Option func(*options)

type options struct {
	required   bool
	def        any
	hasDefault bool
	extra      []validators.Validator
}

// Required marks the field as mandatory.
func Required() Option {
	return func(o *options) { o.required = true }
}

// Default sets the value bound when the caller omits an optional field.
func Default(v any) Option {
	return func(o *options) {
		o.def = v
		o.hasDefault = true
	}
}

// With appends validators after the field's built-in chain. They only see
// values that already passed the type check.
func With(vs ...validators.Validator) Option {
	return func(o *options) { o.extra = append(o.extra, vs...) }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// base carries the state shared by every built-in field.
type base struct {
	kind       string
	required   bool
	def        any
	hasDefault bool
	typeCheck  validators.Validator
	chain      []validators.Validator
}

func newBase(kind string, zero any, opts []Option, typeCheck validators.Validator, rest ...validators.Validator) *base {
	o := buildOptions(opts)

	chain := make([]validators.Validator, 0, len(rest)+len(o.extra)+2)
	if o.required {
		chain = append(chain, validators.Required())
	}
	chain = append(chain, typeCheck)
	chain = append(chain, rest...)
	chain = append(chain, o.extra...)

	b := &base{
		kind:       kind,
		required:   o.required,
		hasDefault: o.hasDefault,
		typeCheck:  typeCheck,
		chain:      chain,
		def:        zero,
	}
	if o.hasDefault {
		b.def = o.def
	}
	return b
}

func (b *base) Kind() string                    { return b.kind }
func (b *base) Required() bool                  { return b.required }
func (b *base) Default() (any, bool)            { return b.def, b.hasDefault }
func (b *base) TypeCheck() validators.Validator { return b.typeCheck }

func (b *base) Validators() []validators.Validator {
	out := make([]validators.Validator, len(b.chain))
	copy(out, b.chain)
	return out
}

// Char declares a text field: [Required?, InstanceOf[string], NotBlank].
// The implicit default is "".
func Char(opts ...Option) Field {
	return newBase(KindChar, "", opts, validators.InstanceOf[string](), validators.NotBlank())
}

// Boolean declares a boolean field: [Required?, InstanceOf[bool]]. The
// implicit default is false.
func Boolean(opts ...Option) Field {
	return newBase(KindBoolean, false, opts, validators.InstanceOf[bool]())
}

// Integer declares an int field: [Required?, InstanceOf[int]]. The implicit
// default is 0.
func Integer(opts ...Option) Field {
	return newBase(KindInteger, 0, opts, validators.InstanceOf[int]())
}

// Email declares a text field that must also hold a syntactically valid
// address: [Required?, InstanceOf[string], NotBlank, Tag("email")].
func Email(opts ...Option) Field {
	return newBase(KindEmail, "", opts,
		validators.InstanceOf[string](),
		validators.NotBlank(),
		validators.Tag("email").WithMessage("must be a valid email address"),
	)
}

// Instance declares a field holding values of type T: [Required?,
// InstanceOf[T]]. The implicit default is the zero T.
func Instance[T any](opts ...Option) Field {
	var zero T
	return newBase(KindInstance, any(zero), opts, validators.InstanceOf[T]())
}
