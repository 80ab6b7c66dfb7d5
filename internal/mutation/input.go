package mutation

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// decodeTag is the struct tag read by Input.Decode.
const decodeTag = "mutation"

// Input is the bound, validated state handed to an execute function. It holds
// one value per declared field (supplied or defaulted) plus any undeclared
// caller keys as extras.
type Input struct {
	mutation string
	names    []string
	values   map[string]any
	extras   map[string]any
}

// Mutation returns the name of the mutation being executed.
func (in *Input) Mutation() string { return in.mutation }

// Lookup returns the bound value of a declared field.
func (in *Input) Lookup(name string) (any, bool) {
	v, ok := in.values[name]
	return v, ok
}

// Value returns the bound value of a declared field, or nil.
func (in *Input) Value(name string) any {
	return in.values[name]
}

// String returns the bound value of name as a string, or "".
func (in *Input) String(name string) string {
	s, _ := Get[string](in, name)
	return s
}

// Bool returns the bound value of name as a bool, or false.
func (in *Input) Bool(name string) bool {
	b, _ := Get[bool](in, name)
	return b
}

// Int returns the bound value of name as an int, or 0.
func (in *Input) Int(name string) int {
	n, _ := Get[int](in, name)
	return n
}

// Extra returns an undeclared caller-supplied value.
func (in *Input) Extra(key string) (any, bool) {
	v, ok := in.extras[key]
	return v, ok
}

// Names returns the declared field names in schema order.
func (in *Input) Names() []string {
	out := make([]string, len(in.names))
	copy(out, in.names)
	return out
}

// Fields returns a copy of the bound field values.
func (in *Input) Fields() map[string]any {
	return maps.Clone(in.values)
}

// Extras returns a copy of the undeclared caller-supplied values. Nil when
// there are none.
func (in *Input) Extras() map[string]any {
	return maps.Clone(in.extras)
}

// Decode copies the bound field values into dst, which must be a pointer to a
// struct. Struct fields are matched by their `mutation:"name"` tag. Extras
// are not decoded.
//
//	var req struct {
//		Email string `mutation:"email"`
//		Send  bool   `mutation:"send_welcome_email"`
//	}
//	err := in.Decode(&req)
func (in *Input) Decode(dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          decodeTag,
		Result:           dst,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return fmt.Errorf("creating decoder for %q: %w", in.mutation, err)
	}
	if err := dec.Decode(in.values); err != nil {
		return fmt.Errorf("decoding %q input: %w", in.mutation, err)
	}
	return nil
}

// Get returns the bound value of a declared field as T. ok is false when the
// field is not declared or its value is not a T.
func Get[T any](in *Input, name string) (T, bool) {
	v, ok := in.values[name].(T)
	return v, ok
}
