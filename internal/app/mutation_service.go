// Package app provides the application services that inbound adapters call.
// Services resolve mutations by name, apply service-wide policy, and record
// logs and metrics; the validation and execution rules live in the mutation
// package.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/mutations/internal/app/fanout"
	"github.com/jsamuelsen11/mutations/internal/domain"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/platform/config"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
	"github.com/jsamuelsen11/mutations/internal/platform/telemetry"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

var _ ports.MutationService = (*MutationService)(nil)

// MutationService implements ports.MutationService on top of a
// mutation.Registry.
type MutationService struct {
	registry *mutation.Registry
	cfg      config.MutationsConfig
	disabled map[string]struct{}
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// NewMutationService creates a MutationService. metrics may be nil; a nil
// logger discards.
func NewMutationService(registry *mutation.Registry, cfg config.MutationsConfig, metrics *telemetry.Metrics, logger *slog.Logger) *MutationService {
	if logger == nil {
		logger = logging.Discard()
	}

	disabled := make(map[string]struct{}, len(cfg.Disabled))
	for _, name := range cfg.Disabled {
		disabled[name] = struct{}{}
	}

	return &MutationService{
		registry: registry,
		cfg:      cfg,
		disabled: disabled,
		metrics:  metrics,
		logger:   logger,
	}
}

// List describes every served mutation in registration order.
func (s *MutationService) List(_ context.Context) []ports.MutationInfo {
	all := s.registry.List()
	infos := make([]ports.MutationInfo, 0, len(all))
	for _, m := range all {
		if s.isDisabled(m.Name()) {
			continue
		}
		infos = append(infos, describe(m))
	}
	return infos
}

// Describe returns the schema of one served mutation.
func (s *MutationService) Describe(_ context.Context, name string) (ports.MutationInfo, error) {
	m, err := s.lookup(name)
	if err != nil {
		return ports.MutationInfo{}, err
	}
	return describe(m), nil
}

// Run validates args and executes the named mutation.
func (s *MutationService) Run(ctx context.Context, name string, args mutation.Args, raise *bool) (*mutation.Result, error) {
	m, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx = logging.WithLogger(ctx, s.loggerFor(ctx))

	res, err := m.Run(ctx, args, mutation.RaiseOnError(s.raise(raise)))

	outcome := telemetry.OutcomeSuccess
	switch {
	case errors.Is(err, mutation.ErrValidation), err == nil && !res.Success:
		outcome = telemetry.OutcomeInvalid
	case err != nil:
		outcome = telemetry.OutcomeError
	}
	s.metrics.RecordMutation(ctx, telemetry.OpRun, name, outcome, start)

	return res, err
}

// Validate checks args against the named mutation's schema.
func (s *MutationService) Validate(ctx context.Context, name string, args mutation.Args, raise *bool) (*mutation.ValidationResult, error) {
	m, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx = logging.WithLogger(ctx, s.loggerFor(ctx))

	res, err := m.Validate(ctx, args, mutation.RaiseOnError(s.raise(raise)))

	outcome := telemetry.OutcomeSuccess
	if err != nil || !res.IsValid {
		outcome = telemetry.OutcomeInvalid
	}
	s.metrics.RecordMutation(ctx, telemetry.OpValidate, name, outcome, start)

	return res, err
}

// RunBatch runs every invocation independently on a bounded worker pool.
// Outcomes keep input order. Only an empty or oversized batch fails as a
// whole.
func (s *MutationService) RunBatch(ctx context.Context, batch []ports.Invocation, raise *bool) ([]ports.BatchOutcome, error) {
	switch {
	case len(batch) == 0:
		return nil, fmt.Errorf("%w: batch is empty", domain.ErrInvalidRequest)
	case len(batch) > s.cfg.MaxBatchSize:
		return nil, fmt.Errorf("%w: batch of %d exceeds limit %d", domain.ErrInvalidRequest, len(batch), s.cfg.MaxBatchSize)
	}

	s.loggerFor(ctx).InfoContext(ctx, "running mutation batch", slog.Int("size", len(batch)))

	results := fanout.Run(ctx, s.cfg.BatchWorkers, batch, func(ctx context.Context, inv ports.Invocation) (res *mutation.Result, err error) {
		// Workers run outside the request goroutine, so a panicking execute
		// is contained to its own outcome.
		defer func() {
			if v := recover(); v != nil {
				res, err = nil, fmt.Errorf("mutation %q panicked: %v", inv.Mutation, v)
			}
		}()
		return s.Run(ctx, inv.Mutation, inv.Args, raise)
	})

	outcomes := make([]ports.BatchOutcome, len(batch))
	for i, r := range results {
		outcomes[i] = ports.BatchOutcome{Mutation: batch[i].Mutation, Result: r.Value, Err: r.Err}
	}
	return outcomes, nil
}

func (s *MutationService) lookup(name string) (*mutation.Mutation, error) {
	if s.isDisabled(name) {
		return nil, fmt.Errorf("mutation %q: %w", name, domain.ErrNotFound)
	}
	m, err := s.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("mutation %q: %w", name, domain.ErrNotFound)
	}
	return m, nil
}

func (s *MutationService) isDisabled(name string) bool {
	_, ok := s.disabled[name]
	return ok
}

func (s *MutationService) raise(override *bool) bool {
	if override != nil {
		return *override
	}
	return s.cfg.RaiseOnError
}

// loggerFor prefers a request-scoped logger placed in ctx by middleware.
func (s *MutationService) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func describe(m *mutation.Mutation) ports.MutationInfo {
	info := ports.MutationInfo{
		Name:        m.Name(),
		Description: m.Description(),
		Fields:      make([]ports.FieldInfo, 0, m.Schema().Len()),
	}
	for name, f := range m.Schema().All() {
		fi := ports.FieldInfo{Name: name, Kind: f.Kind(), Required: f.Required()}
		if !f.Required() {
			fi.Default, fi.HasDefault = f.Default()
		}
		info.Fields = append(info.Fields, fi)
	}
	return info
}
