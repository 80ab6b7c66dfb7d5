package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/mutations/internal/domain"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

var digestInfo = ports.MutationInfo{
	Name: "schedule_digest",
	Fields: []ports.FieldInfo{
		{Name: "email", Kind: fields.KindEmail, Required: true},
		{Name: "frequency_days", Kind: fields.KindInteger},
		{Name: "paused", Kind: fields.KindBoolean},
	},
}

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		rawJSON string
		want    mutation.Args
	}{
		{name: "nothing", want: mutation.Args{}},
		{
			name:  "typed by field kind",
			pairs: []string{"email=a@b.co", "frequency_days=14", "paused=true"},
			want:  mutation.Args{"email": "a@b.co", "frequency_days": 14, "paused": true},
		},
		{
			name:  "unconvertible stays string",
			pairs: []string{"frequency_days=weekly", "paused=maybe"},
			want:  mutation.Args{"frequency_days": "weekly", "paused": "maybe"},
		},
		{
			name:  "null binds nil",
			pairs: []string{"email=null"},
			want:  mutation.Args{"email": nil},
		},
		{
			name:  "value may contain equals",
			pairs: []string{"note=a=b"},
			want:  mutation.Args{"note": "a=b"},
		},
		{
			name:    "json object",
			rawJSON: `{"email":"a@b.co","frequency_days":3,"extra":1.5}`,
			want:    mutation.Args{"email": "a@b.co", "frequency_days": 3, "extra": 1.5},
		},
		{
			name:    "json number beyond float64 range stays numeric",
			rawJSON: `{"email":1e400}`,
			want:    mutation.Args{"email": math.Inf(1)},
		},
		{
			name:    "pairs override json",
			pairs:   []string{"frequency_days=30"},
			rawJSON: `{"frequency_days":3}`,
			want:    mutation.Args{"frequency_days": 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseArgs(digestInfo, tt.pairs, tt.rawJSON)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_Malformed(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		pairs   []string
		rawJSON string
	}{
		{pairs: []string{"email"}},
		{pairs: []string{"=x"}},
		{rawJSON: `[1,2]`},
		{rawJSON: `{"email":`},
		{rawJSON: `{"email":"a@b.co"} {"paused":true}`},
		{rawJSON: `{"email":"a@b.co"} trailing`},
	} {
		_, err := parseArgs(digestInfo, tc.pairs, tc.rawJSON)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest, "pairs=%v json=%q", tc.pairs, tc.rawJSON)
	}
}
