package mutation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
)

const (
	yes   = "this worked!"
	email = "user@example.com"
	name  = "Bob Boblob"
	band  = "Nickelback"
)

// newSimple declares the signup-style mutation used throughout these tests.
// calls counts execute invocations.
func newSimple(t *testing.T, calls *atomic.Int32) *mutation.Mutation {
	t.Helper()
	m, err := mutation.New("simple",
		mutation.WithField("email", fields.Char(fields.Required())),
		mutation.WithField("send_welcome_email", fields.Boolean(fields.Default(false))),
		mutation.WithExecute(func(_ context.Context, in *mutation.Input) (any, error) {
			if calls != nil {
				calls.Add(1)
			}
			return yes + in.String("email"), nil
		}),
	)
	require.NoError(t, err)
	return m
}

func TestRun_Basics(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	m := newSimple(t, &calls)

	res, err := m.Run(context.Background(), mutation.Args{"name": name, "email": email})

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Success)
	assert.Nil(t, res.Errors)
	assert.Equal(t, yes+email, res.ReturnValue)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNew_RequiresExecute(t *testing.T) {
	t.Parallel()

	m, err := mutation.New("without_execute",
		mutation.WithField("email", fields.Char(fields.Required())),
	)

	assert.Nil(t, m)
	require.ErrorIs(t, err, mutation.ErrExecuteNotImplemented)
	var nerr *mutation.ExecuteNotImplementedError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "without_execute", nerr.Mutation)
}

func TestMustNew_PanicsWithoutExecute(t *testing.T) {
	t.Parallel()

	assert.PanicsWithError(t, `mutation "bare": execute not implemented`, func() {
		mutation.MustNew("bare")
	})
}

func TestRun_RaiseOnError(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	m := newSimple(t, &calls)

	res, err := m.Run(context.Background(), nil, mutation.RaiseOnError(true))

	assert.Nil(t, res)
	var verr *mutation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Errors.Has("email"))
	assert.ErrorIs(t, err, mutation.ErrValidation)
	assert.Zero(t, calls.Load())
}

func TestRun_MissingRequired(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	m := newSimple(t, &calls)

	res, err := m.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, res.Success)
	msg, ok := res.Errors.Get("email")
	require.True(t, ok)
	assert.Equal(t, "is required", msg)
	assert.Nil(t, res.ReturnValue)
	assert.Zero(t, calls.Load())
}

func TestRun_InvalidType(t *testing.T) {
	t.Parallel()
	m := newSimple(t, nil)

	res, err := m.Run(context.Background(), mutation.Args{"email": 1234})

	require.NoError(t, err)
	assert.False(t, res.Success)
	msg, ok := res.Errors.Get("email")
	require.True(t, ok)
	assert.Equal(t, "must be of type string", msg)
}

func TestRun_ExplicitNil(t *testing.T) {
	t.Parallel()
	m := newSimple(t, nil)

	res, err := m.Run(context.Background(), mutation.Args{"email": nil})

	require.NoError(t, err)
	assert.False(t, res.Success)
	msg, _ := res.Errors.Get("email")
	assert.Equal(t, "is required", msg, "required failure must win over the type failure")
}

func TestRun_Blank(t *testing.T) {
	t.Parallel()
	m := newSimple(t, nil)

	res, err := m.Run(context.Background(), mutation.Args{"email": ""})

	require.NoError(t, err)
	msg, _ := res.Errors.Get("email")
	assert.Equal(t, "must not be blank", msg)
}

func TestRun_CollectsAllFields(t *testing.T) {
	t.Parallel()
	m := newSimple(t, nil)

	res, err := m.Run(context.Background(), mutation.Args{"send_welcome_email": "yes"})

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"email", "send_welcome_email"}, res.Errors.Fields())
	assert.Equal(t, map[string]string{
		"email":              "is required",
		"send_welcome_email": "must be of type bool",
	}, res.Errors.Map())
}

func TestRun_ErrorOrderFollowsSchema(t *testing.T) {
	t.Parallel()

	m := mutation.MustNew("ordered",
		mutation.WithField("c", fields.Char(fields.Required())),
		mutation.WithField("a", fields.Char(fields.Required())),
		mutation.WithField("b", fields.Char(fields.Required())),
		mutation.WithExecute(func(context.Context, *mutation.Input) (any, error) { return nil, nil }),
	)

	for range 10 {
		res, err := m.Run(context.Background(), mutation.Args{})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, res.Errors.Fields())
	}
}

func TestRun_DefaultValues(t *testing.T) {
	t.Parallel()

	m := mutation.MustNew("with_default",
		mutation.WithField("email", fields.Char(fields.Required())),
		mutation.WithField("favorite_band", fields.Char(fields.Default(band))),
		mutation.WithExecute(func(_ context.Context, in *mutation.Input) (any, error) {
			return in.String("favorite_band"), nil
		}),
	)

	res, err := m.Run(context.Background(), mutation.Args{"email": email})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, band, res.ReturnValue)
}

func TestRun_OnlyOptionalFieldsSucceedsWithoutArgs(t *testing.T) {
	t.Parallel()

	var got map[string]any
	m := mutation.MustNew("optional_only",
		mutation.WithField("note", fields.Char()),
		mutation.WithField("flag", fields.Boolean()),
		mutation.WithField("count", fields.Integer(fields.Default(5))),
		mutation.WithExecute(func(_ context.Context, in *mutation.Input) (any, error) {
			got = in.Fields()
			return nil, nil
		}),
	)

	res, err := m.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, map[string]any{"note": "", "flag": false, "count": 5}, got)
}

func TestRun_SuppliedOptionalIsValidated(t *testing.T) {
	t.Parallel()

	m := mutation.MustNew("optional_checked",
		mutation.WithField("note", fields.Char()),
		mutation.WithExecute(func(context.Context, *mutation.Input) (any, error) { return nil, nil }),
	)

	res, err := m.Run(context.Background(), mutation.Args{"note": ""})
	require.NoError(t, err)
	assert.True(t, res.Errors.Has("note"))

	res, err = m.Run(context.Background(), mutation.Args{"note": nil})
	require.NoError(t, err)
	msg, _ := res.Errors.Get("note")
	assert.Equal(t, "must be of type string", msg)
}

func TestRun_ExtrasPassThrough(t *testing.T) {
	t.Parallel()

	var extra any
	var extraOK bool
	m := mutation.MustNew("extras",
		mutation.WithField("email", fields.Char(fields.Required())),
		mutation.WithExecute(func(_ context.Context, in *mutation.Input) (any, error) {
			extra, extraOK = in.Extra("name")
			_, declared := in.Lookup("name")
			assert.False(t, declared)
			return nil, nil
		}),
	)

	res, err := m.Run(context.Background(), mutation.Args{"email": email, "name": 42})

	require.NoError(t, err)
	assert.True(t, res.Success, "undeclared keys are never validated")
	assert.True(t, extraOK)
	assert.Equal(t, 42, extra)
}

func TestRun_ExecuteErrorPropagatesUnchanged(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("downstream exploded")
	m := mutation.MustNew("failing",
		mutation.WithExecute(func(context.Context, *mutation.Input) (any, error) {
			return nil, sentinel
		}),
	)

	res, err := m.Run(context.Background(), nil)

	assert.Nil(t, res)
	assert.Same(t, sentinel, err)
}

func TestRun_ExecutePanicPropagates(t *testing.T) {
	t.Parallel()

	m := mutation.MustNew("panicking",
		mutation.WithExecute(func(context.Context, *mutation.Input) (any, error) {
			panic("boom")
		}),
	)

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = m.Run(context.Background(), nil)
	})
}

func TestRun_ReturnValueForwardedVerbatim(t *testing.T) {
	t.Parallel()

	type payload struct{ ID int }
	want := &payload{ID: 7}
	m := mutation.MustNew("verbatim",
		mutation.WithExecute(func(context.Context, *mutation.Input) (any, error) { return want, nil }),
	)

	res, err := m.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Same(t, want, res.ReturnValue)
}

func TestRun_ContextReachesExecute(t *testing.T) {
	t.Parallel()

	type key struct{}
	m := mutation.MustNew("ctx",
		mutation.WithExecute(func(ctx context.Context, _ *mutation.Input) (any, error) {
			return ctx.Value(key{}), nil
		}),
	)

	res, err := m.Run(context.WithValue(context.Background(), key{}, "carried"), nil)

	require.NoError(t, err)
	assert.Equal(t, "carried", res.ReturnValue)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	m := newSimple(t, &calls)
	ctx := context.Background()

	v, err := m.Validate(ctx, mutation.Args{"send_welcome_email": true}, mutation.RaiseOnError(false))
	require.NoError(t, err)
	assert.False(t, v.IsValid)
	assert.True(t, v.Errors.Has("email"))

	v, err = m.Validate(ctx, mutation.Args{"send_welcome_email": true}, mutation.RaiseOnError(true))
	assert.Nil(t, v)
	var ferr *mutation.FailedValidationError
	require.ErrorAs(t, err, &ferr)
	assert.True(t, ferr.Errors.Has("email"))
	var verr *mutation.ValidationError
	assert.False(t, errors.As(err, &verr), "validate must not raise the run error type")

	v, err = m.Validate(ctx, mutation.Args{"email": email})
	require.NoError(t, err)
	assert.True(t, v.IsValid)
	assert.Nil(t, v.Errors)

	assert.Zero(t, calls.Load(), "validate never executes")
}

func TestRunAndValidate_Concurrent(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	m := newSimple(t, &calls)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				res, err := m.Run(context.Background(), mutation.Args{"email": email})
				assert.NoError(t, err)
				assert.True(t, res.Success)
				return
			}
			v, err := m.Validate(context.Background(), mutation.Args{})
			assert.NoError(t, err)
			assert.False(t, v.IsValid)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(25), calls.Load())
}

func TestNew_DeclarationErrors(t *testing.T) {
	t.Parallel()

	noop := mutation.WithExecute(func(context.Context, *mutation.Input) (any, error) { return nil, nil })

	tests := []struct {
		name    string
		mname   string
		opts    []mutation.Option
		wantErr error
	}{
		{
			name:    "empty mutation name",
			mname:   " ",
			opts:    []mutation.Option{noop},
			wantErr: mutation.ErrInvalidName,
		},
		{
			name:  "duplicate field",
			mname: "dup",
			opts: []mutation.Option{
				mutation.WithField("email", fields.Char()),
				mutation.WithField("email", fields.Boolean()),
				noop,
			},
			wantErr: mutation.ErrDuplicateField,
		},
		{
			name:    "empty field name",
			mname:   "empty",
			opts:    []mutation.Option{mutation.WithField("", fields.Char()), noop},
			wantErr: mutation.ErrInvalidField,
		},
		{
			name:    "nil field",
			mname:   "nil",
			opts:    []mutation.Option{mutation.WithField("x", nil), noop},
			wantErr: mutation.ErrInvalidField,
		},
		{
			name:  "required with default",
			mname: "masked",
			opts: []mutation.Option{
				mutation.WithField("email", fields.Char(fields.Required(), fields.Default("x@example.com"))),
				noop,
			},
			wantErr: mutation.ErrInvalidField,
		},
		{
			name:    "default of wrong type",
			mname:   "wrong_default",
			opts:    []mutation.Option{mutation.WithField("flag", fields.Boolean(fields.Default("no"))), noop},
			wantErr: mutation.ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := mutation.New(tt.mname, tt.opts...)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMutation_Accessors(t *testing.T) {
	t.Parallel()

	m := mutation.MustNew("described",
		mutation.WithDescription("does things"),
		mutation.WithField("b", fields.Boolean()),
		mutation.WithField("a", fields.Char(fields.Required())),
		mutation.WithExecute(func(context.Context, *mutation.Input) (any, error) { return nil, nil }),
	)

	assert.Equal(t, "described", m.Name())
	assert.Equal(t, "does things", m.Description())
	assert.Equal(t, 2, m.Schema().Len())
	assert.Equal(t, []string{"b", "a"}, m.Schema().Names())

	f, ok := m.Schema().Field("a")
	require.True(t, ok)
	assert.True(t, f.Required())
	_, ok = m.Schema().Field("missing")
	assert.False(t, ok)

	var order []string
	for fieldName := range m.Schema().All() {
		order = append(order, fieldName)
	}
	assert.Equal(t, []string{"b", "a"}, order)
}
