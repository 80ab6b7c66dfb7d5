package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveFields are attribute names whose values are always redacted.
// Mutation arguments are logged by key, and callers commonly name secrets
// with these keys.
var SensitiveFields = []string{
	"authorization",
	"cookie",
	"password",
	"secret",
	"token",
	"x-api-key",
}

var (
	// bearerPattern matches "Bearer <token>" values.
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

	// apiKeyInlinePattern matches inline "api_key=<value>" fragments.
	apiKeyInlinePattern = regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`)

	// emailPattern matches e-mail addresses, which mutation inputs often carry.
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// newRedactAttr returns a masq ReplaceAttr function that redacts by field
// name, by prefix, and by value pattern.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveFields)+5)
	for _, name := range SensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldPrefix("secret_"),
		masq.WithFieldPrefix("api_key"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(apiKeyInlinePattern),
		masq.WithRegex(emailPattern),
	)

	return masq.New(opts...)
}
