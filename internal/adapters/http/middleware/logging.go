package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen11/mutations/internal/platform/logging"
)

// Logging logs request start and completion. It derives a child logger
// carrying the request id and stores it with logging.WithLogger, so the
// mutation runtime and the app service log under the same id.
//
// At debug level the request headers are logged as a group with lowercase
// keys; the logger's redaction masks credentials such as authorization and
// cookie.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.With(slog.String("request_id", RequestIDFromContext(ctx)))
			ctx = logging.WithLogger(ctx, child)

			child.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if child.Enabled(ctx, slog.LevelDebug) {
				child.DebugContext(ctx, "request headers", headerGroup(r.Header))
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			level := slog.LevelInfo
			if rw.statusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			child.Log(ctx, level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func headerGroup(h http.Header) slog.Attr {
	attrs := make([]any, 0, len(h))
	for key, vals := range h {
		attrs = append(attrs, slog.String(strings.ToLower(key), strings.Join(vals, ",")))
	}
	return slog.Group("headers", attrs...)
}
