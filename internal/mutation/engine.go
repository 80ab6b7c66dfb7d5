package mutation

import (
	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
)

// Args are the caller-supplied inputs of a single call, keyed by field name.
// Keys that are not declared fields are passed through to the execute
// function as extras and are never validated.
type Args map[string]any

// bind resolves every declared field against args and validates it.
//
// Each field's chain runs in order and stops at its first failure; every
// field is checked regardless of earlier failures. An omitted optional field
// is bound to its default without running the chain, since explicit defaults
// were vetted by newSchema. An omitted required field runs the chain on nil
// so it always reports the required failure.
func (s *Schema) bind(mutationName string, args Args) (*Input, Errors) {
	in := &Input{
		mutation: mutationName,
		names:    s.Names(),
		values:   make(map[string]any, len(s.entries)),
	}

	var errs Errors
	for _, e := range s.entries {
		value, supplied := args[e.name]
		if !supplied {
			value, _ = e.field.Default()
		}
		in.values[e.name] = value

		if !supplied && !e.field.Required() {
			continue
		}
		if msg, ok := firstFailure(e.field, value); !ok {
			errs = append(errs, FieldError{Field: e.name, Message: msg})
		}
	}

	for key, value := range args {
		if _, declared := s.index[key]; declared {
			continue
		}
		if in.extras == nil {
			in.extras = make(map[string]any)
		}
		in.extras[key] = value
	}

	return in, errs
}

// firstFailure evaluates f's validators in order and returns the message of
// the first one that rejects value.
func firstFailure(f fields.Field, value any) (string, bool) {
	for _, v := range f.Validators() {
		if !v.IsValid(value) {
			return v.Message(), false
		}
	}
	return "", true
}
