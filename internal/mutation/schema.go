package mutation

import (
	"fmt"
	"iter"

	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
)

// schemaEntry is one declared field.
type schemaEntry struct {
	name  string
	field fields.Field
}

// Schema is the ordered, immutable set of fields declared by a mutation.
type Schema struct {
	entries []schemaEntry
	index   map[string]int
}

// newSchema checks every declaration and builds the schema in declaration
// order. The first offending declaration is reported.
func newSchema(decls []schemaEntry) (*Schema, error) {
	s := &Schema{
		entries: make([]schemaEntry, 0, len(decls)),
		index:   make(map[string]int, len(decls)),
	}

	for _, d := range decls {
		if err := checkField(d.name, d.field); err != nil {
			return nil, err
		}
		if _, dup := s.index[d.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, d.name)
		}
		s.index[d.name] = len(s.entries)
		s.entries = append(s.entries, d)
	}

	return s, nil
}

// checkField enforces the required/default policy for a single declaration.
func checkField(name string, f fields.Field) error {
	if name == "" {
		return fmt.Errorf("%w: empty field name", ErrInvalidField)
	}
	if f == nil {
		return fmt.Errorf("%w: field %q is nil", ErrInvalidField, name)
	}

	def, explicit := f.Default()
	if !explicit {
		return nil
	}
	if f.Required() {
		return fmt.Errorf("%w: required field %q must not declare a default", ErrInvalidField, name)
	}
	if tc := f.TypeCheck(); tc != nil && !tc.IsValid(def) {
		return fmt.Errorf("%w: default for %q %s, got %T", ErrInvalidField, name, tc.Message(), def)
	}
	return nil
}

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.entries) }

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// Field returns the field declared under name.
func (s *Schema) Field(name string) (fields.Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].field, true
}

// All iterates the fields in declaration order.
func (s *Schema) All() iter.Seq2[string, fields.Field] {
	return func(yield func(string, fields.Field) bool) {
		for _, e := range s.entries {
			if !yield(e.name, e.field) {
				return
			}
		}
	}
}
