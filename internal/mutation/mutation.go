// Package mutation implements declarative command objects. A Mutation pairs a
// named schema of typed fields with a single execute function. Callers invoke
// it with Args; the inputs are validated against the schema, every failing
// field is collected, and only a fully valid input reaches execute.
//
// Declaration:
//
//	signup := mutation.MustNew("signup",
//		mutation.WithField("email", fields.Char(fields.Required())),
//		mutation.WithField("send_welcome_email", fields.Boolean(fields.Default(false))),
//		mutation.WithExecute(func(ctx context.Context, in *mutation.Input) (any, error) {
//			return createAccount(ctx, in.String("email"))
//		}),
//	)
//
// Invocation:
//
//	res, err := signup.Run(ctx, mutation.Args{"email": "user@example.com"})
//	v, err := signup.Validate(ctx, args, mutation.RaiseOnError(true))
//
// A declared Mutation is immutable, so Run and Validate are safe for
// concurrent use.
package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
)

const tracerName = "github.com/jsamuelsen11/mutations/internal/mutation"

// ExecuteFunc is the business logic of a mutation. It receives the validated
// input and is called at most once per Run. Its return value is forwarded
// unchanged as Result.ReturnValue; a returned error is passed to the caller
// of Run unwrapped.
type ExecuteFunc func(ctx context.Context, in *Input) (any, error)

// Mutation is a declared command object.
type Mutation struct {
	name        string
	description string
	schema      *Schema
	execute     ExecuteFunc
}

// Option configures a mutation declaration.
type Option func(*declaration)

type declaration struct {
	description string
	fields      []schemaEntry
	execute     ExecuteFunc
}

// WithField declares a field. Fields are validated in declaration order.
func WithField(name string, f fields.Field) Option {
	return func(d *declaration) {
		d.fields = append(d.fields, schemaEntry{name: name, field: f})
	}
}

// WithExecute sets the execute function. It is mandatory.
func WithExecute(fn ExecuteFunc) Option {
	return func(d *declaration) { d.execute = fn }
}

// WithDescription sets a human-readable description used by listings.
func WithDescription(text string) Option {
	return func(d *declaration) { d.description = text }
}

// New declares a mutation. It fails with an *ExecuteNotImplementedError when
// no execute function is given, and with ErrInvalidName, ErrInvalidField or
// ErrDuplicateField for a malformed declaration.
func New(name string, opts ...Option) (*Mutation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}

	var d declaration
	for _, opt := range opts {
		opt(&d)
	}

	if d.execute == nil {
		return nil, &ExecuteNotImplementedError{Mutation: name}
	}

	schema, err := newSchema(d.fields)
	if err != nil {
		return nil, fmt.Errorf("declaring mutation %q: %w", name, err)
	}

	return &Mutation{
		name:        name,
		description: d.description,
		schema:      schema,
		execute:     d.execute,
	}, nil
}

// MustNew is like New but panics on a malformed declaration. Intended for
// package-level declarations.
func MustNew(name string, opts ...Option) *Mutation {
	m, err := New(name, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the declared name.
func (m *Mutation) Name() string { return m.name }

// Description returns the declared description.
func (m *Mutation) Description() string { return m.description }

// Schema returns the declared fields.
func (m *Mutation) Schema() *Schema { return m.schema }

// CallOption configures a single Run or Validate call.
type CallOption func(*callOptions)

type callOptions struct {
	raiseOnError bool
}

// RaiseOnError makes a validation failure come back as an error
// (*ValidationError from Run, *FailedValidationError from Validate) instead of
// an unsuccessful result.
func RaiseOnError(raise bool) CallOption {
	return func(o *callOptions) { o.raiseOnError = raise }
}

func buildCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate checks args against the schema without executing the mutation.
func (m *Mutation) Validate(ctx context.Context, args Args, opts ...CallOption) (*ValidationResult, error) {
	o := buildCallOptions(opts)

	ctx = logging.WithMutation(ctx, m.name)
	ctx, span := m.startSpan(ctx, "Validate")
	defer span.End()

	_, errs := m.schema.bind(m.name, args)
	m.recordOutcome(ctx, span, "Mutation.Validate", errs)

	if len(errs) > 0 {
		if o.raiseOnError {
			return nil, &FailedValidationError{Mutation: m.name, Errors: errs}
		}
		return &ValidationResult{IsValid: false, Errors: errs}, nil
	}

	return &ValidationResult{IsValid: true}, nil
}

// Run validates args and, when they are valid, calls the execute function
// exactly once. Invalid input never reaches execute.
func (m *Mutation) Run(ctx context.Context, args Args, opts ...CallOption) (*Result, error) {
	o := buildCallOptions(opts)

	ctx = logging.WithMutation(ctx, m.name)
	ctx, span := m.startSpan(ctx, "Run")
	defer span.End()

	in, errs := m.schema.bind(m.name, args)
	m.recordOutcome(ctx, span, "Mutation.Run", errs)

	if len(errs) > 0 {
		if o.raiseOnError {
			return nil, &ValidationError{Mutation: m.name, Errors: errs}
		}
		return &Result{Success: false, Errors: errs}, nil
	}

	logger := logging.FromContext(ctx)
	logger.InfoContext(ctx, "executing mutation",
		slog.String("operation", "Mutation.Run"),
	)

	value, err := m.execute(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "mutation execute failed",
			slog.String("operation", "Mutation.Run"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &Result{Success: true, ReturnValue: value}, nil
}

func (m *Mutation) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "mutation."+op,
		trace.WithAttributes(attribute.String("mutation.name", m.name)),
	)
}

// recordOutcome annotates the span and logs the validation outcome.
func (m *Mutation) recordOutcome(ctx context.Context, span trace.Span, operation string, errs Errors) {
	span.SetAttributes(attribute.Bool("mutation.valid", len(errs) == 0))
	if len(errs) == 0 {
		return
	}

	span.SetAttributes(attribute.StringSlice("mutation.invalid_fields", errs.Fields()))
	logging.FromContext(ctx).DebugContext(ctx, "mutation input failed validation",
		slog.String("operation", operation),
		slog.Any("fields", errs.Fields()),
	)
}
