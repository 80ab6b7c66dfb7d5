package ports

import "context"

// HealthChecker reports whether one dependency of the service can be used.
// The notifier's HTTP client registers itself under its peer name.
type HealthChecker interface {
	Name() string

	// HealthCheck returns nil when the dependency is usable. It must return
	// once ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry aggregates the registered checkers for the readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// Ready runs every check and reports true only when all of them pass.
	// results maps checker names to their error, nil meaning healthy.
	Ready(ctx context.Context) (ready bool, results map[string]error)
}
