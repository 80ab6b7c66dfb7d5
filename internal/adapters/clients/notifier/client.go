// Package notifier is the outbound adapter for the transactional email
// service. It translates domain messages to the downstream wire format and
// downstream failures to domain errors.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/mutations/internal/domain"
	"github.com/jsamuelsen11/mutations/internal/platform/httpclient"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

var _ ports.Notifier = (*Client)(nil)

// messagesPath is where the downstream accepts new messages.
const messagesPath = "/api/v1/messages"

// Client implements ports.Notifier over an httpclient.Client.
type Client struct {
	http   *httpclient.Client
	logger *slog.Logger
}

// New creates a notifier client. A nil logger discards.
func New(c *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{http: c, logger: logger}
}

// SendWelcome posts msg to the downstream.
func (c *Client) SendWelcome(ctx context.Context, msg domain.WelcomeEmail) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRejected, err)
	}

	if err := c.http.PostJSON(ctx, messagesPath, toMessageRequest(msg)); err != nil {
		translated := translate(err)
		c.logger.ErrorContext(ctx, "welcome email not sent",
			slog.String("operation", "notifier.SendWelcome"),
			slog.String("template", msg.Template),
			slog.Any("error", translated),
		)
		return translated
	}

	c.logger.InfoContext(ctx, "welcome email queued", slog.String("template", msg.Template))
	return nil
}

// translate maps transport and status failures to domain errors. 4xx
// answers are rejections; everything else means the downstream is not
// usable right now. A context error stays in the chain so callers can tell
// a passed deadline from an outage.
func translate(err error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= http.StatusBadRequest && statusErr.StatusCode < http.StatusInternalServerError &&
			statusErr.StatusCode != http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", domain.ErrRejected, err)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
}
