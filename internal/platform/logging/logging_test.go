package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/jsamuelsen11/mutations/internal/platform/logging"
)

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: `"msg":"executing mutation"`},
		{format: "text", want: `msg="executing mutation"`},
		{format: "yaml", want: `"msg":"executing mutation"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New("info", tt.format, &buf).Info("executing mutation")

			if out := buf.String(); !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     string
		logDebug  bool
		logWarn   bool
		hasSource bool
	}{
		{level: "debug", logDebug: true, logWarn: true, hasSource: true},
		{level: "DEBUG", logDebug: true, logWarn: true, hasSource: true},
		{level: "info", logDebug: false, logWarn: true},
		{level: "error", logDebug: false, logWarn: false},
		{level: "verbose", logDebug: false, logWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			var debugBuf, warnBuf bytes.Buffer
			logging.New(tt.level, "json", &debugBuf).Debug("debug message")
			logging.New(tt.level, "json", &warnBuf).Warn("warn message")

			if got := debugBuf.Len() > 0; got != tt.logDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.logDebug)
			}
			if got := warnBuf.Len() > 0; got != tt.logWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.logWarn)
			}
			if got := strings.Contains(warnBuf.String(), `"source"`); got != tt.hasSource {
				t.Errorf("source included = %v, want %v", got, tt.hasSource)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	if got := logging.FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext on bare context returned something other than slog.Default()")
	}

	logger := logging.Discard()
	ctx := logging.WithLogger(context.Background(), logger)
	if got := logging.FromContext(ctx); got != logger {
		t.Error("FromContext returned different logger than the one stored with WithLogger")
	}
}

func TestWithMutation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New("info", "json", &buf))
	ctx = logging.WithMutation(ctx, "signup")

	logging.FromContext(ctx).InfoContext(ctx, "validated")

	if out := buf.String(); !strings.Contains(out, `"mutation":"signup"`) {
		t.Errorf("output = %q, want it to carry the mutation name", out)
	}
}

func TestNew_RedactsSensitiveFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		raw  string
	}{
		{name: "password", attr: slog.String("password", "hunter2"), raw: "hunter2"},
		{name: "authorization", attr: slog.String("authorization", "Bearer abc"), raw: "abc"},
		{name: "secret prefix", attr: slog.String("secret_key", "s3cr3t"), raw: "s3cr3t"},
		{name: "bearer value", attr: slog.String("header", "Bearer eyJhbGciOiJSUzI1NiJ9"), raw: "eyJhbGciOiJSUzI1NiJ9"},
		{name: "email value", attr: slog.String("recipient", "user@example.com"), raw: "user@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New("info", "json", &buf).Info("mutation args", tt.attr)

			out := buf.String()
			if strings.Contains(out, tt.raw) {
				t.Errorf("output = %q, want %q redacted", out, tt.raw)
			}
			if !strings.Contains(out, "[REDACTED]") {
				t.Errorf("output = %q, missing [REDACTED] marker", out)
			}
		})
	}
}

func TestNew_KeepsNonSensitiveFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logging.New("info", "json", &buf).Info("event",
		slog.String("mutation", "signup"),
		slog.String("path", "/api/v1/mutations/signup/run"),
	)

	out := buf.String()
	for _, want := range []string{"signup", "/api/v1/mutations/signup/run"} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, want it to contain %q", out, want)
		}
	}
}
