package ports

import (
	"context"

	"github.com/jsamuelsen11/mutations/internal/domain"
)

// Notifier delivers transactional email through a downstream service.
// Implemented by the notifier adapter; called from mutation execute
// functions.
type Notifier interface {
	// SendWelcome queues msg for delivery. Returns domain.ErrUnavailable when
	// the downstream cannot be reached and domain.ErrRejected when it refuses
	// the message.
	SendWelcome(ctx context.Context, msg domain.WelcomeEmail) error
}
