package domain

import (
	"fmt"
	"strings"
)

// WelcomeEmail asks the notifier to greet a newly signed-up address.
type WelcomeEmail struct {
	To       string
	Template string
	// RequestedBy names the mutation that asked for the message.
	RequestedBy string
}

// DefaultWelcomeTemplate is used when a WelcomeEmail names no template.
const DefaultWelcomeTemplate = "welcome"

// NewWelcomeEmail builds a message for to using the default template.
func NewWelcomeEmail(to, requestedBy string) WelcomeEmail {
	return WelcomeEmail{To: strings.TrimSpace(to), Template: DefaultWelcomeTemplate, RequestedBy: requestedBy}
}

// Validate reports whether the message can be handed to a notifier.
func (w WelcomeEmail) Validate() error {
	if w.To == "" {
		return fmt.Errorf("welcome email: recipient is empty")
	}
	if w.Template == "" {
		return fmt.Errorf("welcome email: template is empty")
	}
	return nil
}
