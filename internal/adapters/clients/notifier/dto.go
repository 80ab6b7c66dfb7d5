package notifier

import "github.com/jsamuelsen11/mutations/internal/domain"

// messageRequest is the downstream's POST /api/v1/messages body.
type messageRequest struct {
	Recipient string            `json:"recipient"`
	Template  string            `json:"template"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func toMessageRequest(msg domain.WelcomeEmail) messageRequest {
	req := messageRequest{Recipient: msg.To, Template: msg.Template}
	if msg.RequestedBy != "" {
		req.Metadata = map[string]string{"source": msg.RequestedBy}
	}
	return req
}
