package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsamuelsen11/mutations/internal/adapters/http/dto"
	"github.com/jsamuelsen11/mutations/internal/domain"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

// nullValue on the command line binds an explicit nil.
const nullValue = "null"

// parseArgs merges a JSON object and key=value pairs into mutation
// arguments; pairs override JSON keys. Pair values are converted by the
// declared field kind. A value that does not convert stays a string so
// validation reports the type mismatch.
func parseArgs(info ports.MutationInfo, pairs []string, rawJSON string) (mutation.Args, error) {
	raw, err := dto.DecodeArgs(strings.NewReader(rawJSON))
	if err != nil {
		return nil, fmt.Errorf("--args-json: %w", err)
	}
	args := dto.NormalizeArgs(raw, info)

	kinds := make(map[string]string, len(info.Fields))
	for _, f := range info.Fields {
		kinds[f.Name] = f.Kind
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: --arg %q must have the form key=value", domain.ErrInvalidRequest, pair)
		}
		args[key] = convert(kinds[key], value)
	}

	return args, nil
}

func convert(kind, value string) any {
	if value == nullValue {
		return nil
	}
	switch kind {
	case fields.KindInteger:
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	case fields.KindBoolean:
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}
