package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jsamuelsen11/mutations/internal/domain"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

// BatchRequest is the body of POST /api/v1/batch.
type BatchRequest struct {
	Invocations []InvocationRequest `json:"invocations"`
}

// InvocationRequest is one entry of a batch.
type InvocationRequest struct {
	Mutation string          `json:"mutation"`
	Args     json.RawMessage `json:"args"`
}

// DecodeArgs reads a JSON object of mutation arguments. An empty body means
// no arguments. Numbers are kept as json.Number until NormalizeArgs decides
// their Go type. Anything after the object is rejected.
func DecodeArgs(r io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", domain.ErrInvalidRequest, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var args map[string]any
	if err := decodeSingle(dec, &args); err != nil {
		return nil, fmt.Errorf("%w: body must be a single JSON object: %w", domain.ErrInvalidRequest, err)
	}
	if args == nil {
		// JSON null
		args = map[string]any{}
	}
	return args, nil
}

// DecodeBatch reads the body of POST /api/v1/batch.
func DecodeBatch(r io.Reader) (BatchRequest, error) {
	var req BatchRequest
	if err := decodeSingle(json.NewDecoder(r), &req); err != nil {
		return BatchRequest{}, fmt.Errorf("%w: invalid batch body: %w", domain.ErrInvalidRequest, err)
	}
	return req, nil
}

// decodeSingle decodes exactly one JSON value into v; trailing whitespace is
// the only input allowed after it.
func decodeSingle(dec *json.Decoder, v any) error {
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON value")

// NormalizeArgs converts decoded JSON values to the Go types the core
// expects. A whole number sent for an integer field becomes int; every
// other number becomes float64, so fractional input still fails the
// integer type check. Explicit nulls stay nil.
func NormalizeArgs(raw map[string]any, info ports.MutationInfo) mutation.Args {
	kinds := make(map[string]string, len(info.Fields))
	for _, f := range info.Fields {
		kinds[f.Name] = f.Kind
	}

	args := make(mutation.Args, len(raw))
	for k, v := range raw {
		if kinds[k] == fields.KindInteger {
			if n, ok := v.(json.Number); ok {
				if i, ok := wholeInt(n); ok {
					args[k] = i
					continue
				}
			}
		}
		args[k] = plain(v)
	}
	return args
}

func wholeInt(n json.Number) (int, bool) {
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f > math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// plain replaces json.Number with float64, recursively. A number beyond
// float64 range becomes an infinity of the same sign; it never becomes a
// string.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		// Out of range, Float64 reports ErrRange alongside ±Inf.
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = plain(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = plain(e)
		}
		return t
	default:
		return v
	}
}
