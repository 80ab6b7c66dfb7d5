package fields_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
	"github.com/jsamuelsen11/mutations/internal/mutation/validators"
)

type color struct{ name string }

// messages renders a chain as its failure messages, which identify each
// validator without comparing funcs.
func messages(chain []validators.Validator) []string {
	out := make([]string, len(chain))
	for i, v := range chain {
		out[i] = v.Message()
	}
	return out
}

func TestChar(t *testing.T) {
	t.Parallel()

	t.Run("optional", func(t *testing.T) {
		t.Parallel()
		f := fields.Char()

		assert.Equal(t, fields.KindChar, f.Kind())
		assert.False(t, f.Required())
		def, explicit := f.Default()
		assert.Equal(t, "", def)
		assert.False(t, explicit)
		assert.Equal(t, []string{"must be of type string", "must not be blank"}, messages(f.Validators()))
	})

	t.Run("required", func(t *testing.T) {
		t.Parallel()
		f := fields.Char(fields.Required())

		assert.True(t, f.Required())
		assert.Equal(t,
			[]string{"is required", "must be of type string", "must not be blank"},
			messages(f.Validators()),
		)
	})

	t.Run("explicit default", func(t *testing.T) {
		t.Parallel()
		def, explicit := fields.Char(fields.Default("Nickelback")).Default()
		assert.Equal(t, "Nickelback", def)
		assert.True(t, explicit)
	})
}

func TestBoolean(t *testing.T) {
	t.Parallel()

	f := fields.Boolean()
	def, explicit := f.Default()
	assert.Equal(t, false, def)
	assert.False(t, explicit)
	assert.Equal(t, []string{"must be of type bool"}, messages(f.Validators()))

	req := fields.Boolean(fields.Required())
	assert.Equal(t, []string{"is required", "must be of type bool"}, messages(req.Validators()))
}

func TestInteger(t *testing.T) {
	t.Parallel()

	f := fields.Integer(fields.Default(3))
	def, explicit := f.Default()
	assert.Equal(t, 3, def)
	assert.True(t, explicit)
	assert.Equal(t, fields.KindInteger, f.Kind())
	assert.True(t, f.TypeCheck().IsValid(7))
	assert.False(t, f.TypeCheck().IsValid(7.0))
}

func TestEmail(t *testing.T) {
	t.Parallel()

	f := fields.Email(fields.Required())
	require.Len(t, f.Validators(), 4)
	assert.Equal(t, "must be a valid email address", f.Validators()[3].Message())
}

func TestInstance(t *testing.T) {
	t.Parallel()

	f := fields.Instance[color]()
	def, explicit := f.Default()
	assert.Equal(t, color{}, def)
	assert.False(t, explicit)
	assert.Equal(t, fields.KindInstance, f.Kind())
	assert.True(t, f.TypeCheck().IsValid(color{name: "red"}))
	assert.False(t, f.TypeCheck().IsValid("red"))
}

func TestValidators_ReturnsCopy(t *testing.T) {
	t.Parallel()

	f := fields.Char(fields.Required())
	chain := f.Validators()
	chain[0] = validators.NotBlank()

	assert.Equal(t, "is required", f.Validators()[0].Message())
}

func TestWith_AppendsAfterBuiltins(t *testing.T) {
	t.Parallel()

	inRange := validators.Tag("min=1,max=31").WithMessage("must be between 1 and 31")
	f := fields.Integer(fields.Required(), fields.With(inRange))

	assert.Equal(t,
		[]string{"is required", "must be of type int", "must be between 1 and 31"},
		messages(f.Validators()),
	)
	assert.True(t, f.Validators()[2].IsValid(7))
	assert.False(t, f.Validators()[2].IsValid(0))
}
