package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jsamuelsen11/mutations/internal/platform/logging"
)

// jitter is the maximum deviation applied to each delay, as a fraction.
const jitter = 0.25

type retryPolicy struct {
	attempts   int
	initial    time.Duration
	max        time.Duration
	multiplier float64
}

// do sends req up to p.attempts times. The body is buffered so it can be
// replayed. On exhaustion with a retryable status the last response is
// returned alongside the error with its body open.
func (p retryPolicy) do(ctx context.Context, hc *http.Client, req *http.Request, peer string) (*http.Response, error) {
	if p.attempts <= 0 {
		return nil, fmt.Errorf("httpclient: max attempts must be >= 1, got %d", p.attempts)
	}

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		body = b
	}

	var lastErr error
	for attempt := range p.attempts {
		if attempt > 0 {
			if err := p.wait(ctx, req, peer, attempt, lastErr); err != nil {
				return nil, err
			}
		}

		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
		}

		resp, err := hc.Do(req)
		if err != nil {
			lastErr = err
			if !retryable(err) {
				return nil, err
			}
			continue
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, peer)
		if attempt == p.attempts-1 {
			return resp, lastErr
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}

	return nil, lastErr
}

func (p retryPolicy) wait(ctx context.Context, req *http.Request, peer string, attempt int, lastErr error) error {
	delay := p.delay(attempt)

	logging.FromContext(ctx).WarnContext(ctx, "retrying HTTP request",
		slog.String("operation", "httpclient.Do"),
		slog.String("method", req.Method),
		slog.String("peer_service", peer),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", p.attempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// delay is the exponential backoff for the 1-indexed retry attempt, capped
// at p.max before jitter is applied.
func (p retryPolicy) delay(attempt int) time.Duration {
	d := float64(p.initial) * math.Pow(p.multiplier, float64(attempt-1))
	d = min(d, float64(p.max))
	d += d * jitter * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}

// retryable reports whether a transport error is worth another attempt.
// Cancellation and deadlines are final.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
