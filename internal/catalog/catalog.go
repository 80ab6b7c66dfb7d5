// Package catalog declares the mutations served by this module's binaries.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/mutations/internal/domain"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/mutation/fields"
	"github.com/jsamuelsen11/mutations/internal/mutation/validators"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

// Names of the declared mutations.
const (
	Signup         = "signup"
	FavoriteBand   = "favorite_band"
	ScheduleDigest = "schedule_digest"
)

// DefaultBand is bound when favorite_band omits its band.
const DefaultBand = "Nickelback"

// Account is returned by signup.
type Account struct {
	Email            string `json:"email"`
	WelcomeEmailSent bool   `json:"welcome_email_sent"`
}

// Digest is returned by schedule_digest.
type Digest struct {
	Email         string `json:"email" mutation:"email"`
	FrequencyDays int    `json:"frequency_days" mutation:"frequency_days"`
	Paused        bool   `json:"paused" mutation:"paused"`
}

// New declares every catalog mutation. A nil notifier makes signup fail
// with domain.ErrUnavailable when a welcome email is requested.
func New(notifier ports.Notifier) (*mutation.Registry, error) {
	su, err := signup(notifier)
	if err != nil {
		return nil, fmt.Errorf("declaring %s: %w", Signup, err)
	}
	fb, err := favoriteBand()
	if err != nil {
		return nil, fmt.Errorf("declaring %s: %w", FavoriteBand, err)
	}
	sd, err := scheduleDigest()
	if err != nil {
		return nil, fmt.Errorf("declaring %s: %w", ScheduleDigest, err)
	}
	return mutation.NewRegistry(su, fb, sd)
}

type signupInput struct {
	Email            string `mutation:"email"`
	SendWelcomeEmail bool   `mutation:"send_welcome_email"`
}

func signup(notifier ports.Notifier) (*mutation.Mutation, error) {
	return mutation.New(Signup,
		mutation.WithDescription("Create an account and optionally send a welcome email."),
		mutation.WithField("email", fields.Char(fields.Required())),
		mutation.WithField("send_welcome_email", fields.Boolean(fields.Default(false))),
		mutation.WithExecute(func(ctx context.Context, in *mutation.Input) (any, error) {
			var req signupInput
			if err := in.Decode(&req); err != nil {
				return nil, err
			}

			account := Account{Email: req.Email}
			if !req.SendWelcomeEmail {
				return account, nil
			}
			if notifier == nil {
				return nil, fmt.Errorf("sending welcome email: %w", domain.ErrUnavailable)
			}
			if err := notifier.SendWelcome(ctx, domain.NewWelcomeEmail(req.Email, Signup)); err != nil {
				return nil, fmt.Errorf("sending welcome email: %w", err)
			}

			logging.FromContext(ctx).InfoContext(ctx, "account created", slog.Bool("welcome_email_sent", true))
			account.WelcomeEmailSent = true
			return account, nil
		}),
	)
}

func favoriteBand() (*mutation.Mutation, error) {
	return mutation.New(FavoriteBand,
		mutation.WithDescription("Record a favorite band for an address and return it."),
		mutation.WithField("email", fields.Email(fields.Required())),
		mutation.WithField("favorite_band", fields.Char(fields.Default(DefaultBand))),
		mutation.WithExecute(func(_ context.Context, in *mutation.Input) (any, error) {
			return in.String("favorite_band"), nil
		}),
	)
}

func scheduleDigest() (*mutation.Mutation, error) {
	return mutation.New(ScheduleDigest,
		mutation.WithDescription("Schedule a periodic digest email."),
		mutation.WithField("email", fields.Email(fields.Required())),
		mutation.WithField("frequency_days", fields.Integer(
			fields.Default(7),
			fields.With(validators.Tag("min=1,max=31").WithMessage("must be between 1 and 31")),
		)),
		mutation.WithField("paused", fields.Boolean()),
		mutation.WithExecute(func(_ context.Context, in *mutation.Input) (any, error) {
			var d Digest
			if err := in.Decode(&d); err != nil {
				return nil, err
			}
			return d, nil
		}),
	)
}
