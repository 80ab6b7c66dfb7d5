package ports

import (
	"context"

	"github.com/jsamuelsen11/mutations/internal/mutation"
)

// MutationService serves declared mutations to inbound adapters.
type MutationService interface {
	// List describes every served mutation in registration order.
	List(ctx context.Context) []MutationInfo

	// Describe returns one served mutation.
	// Returns domain.ErrNotFound for unknown or disabled names.
	Describe(ctx context.Context, name string) (MutationInfo, error)

	// Run validates args and executes the named mutation. A nil raise uses
	// the configured default. Errors are domain.ErrNotFound,
	// *mutation.ValidationError, or whatever execute returned.
	Run(ctx context.Context, name string, args mutation.Args, raise *bool) (*mutation.Result, error)

	// Validate checks args without executing. Errors are domain.ErrNotFound
	// or *mutation.FailedValidationError.
	Validate(ctx context.Context, name string, args mutation.Args, raise *bool) (*mutation.ValidationResult, error)

	// RunBatch runs each invocation independently with partial-success
	// semantics: per-item failures are reported in the outcome, and only a
	// batch that is rejected as a whole (domain.ErrInvalidRequest) fails.
	RunBatch(ctx context.Context, batch []Invocation, raise *bool) ([]BatchOutcome, error)
}

// Invocation is one entry of a batch.
type Invocation struct {
	Mutation string
	Args     mutation.Args
}

// BatchOutcome is what Run returned for one invocation.
type BatchOutcome struct {
	Mutation string
	Result   *mutation.Result
	Err      error
}

// MutationInfo describes a served mutation and its input schema.
type MutationInfo struct {
	Name        string
	Description string
	Fields      []FieldInfo
}

// FieldInfo describes one declared field.
type FieldInfo struct {
	Name       string
	Kind       string
	Required   bool
	Default    any
	HasDefault bool
}
