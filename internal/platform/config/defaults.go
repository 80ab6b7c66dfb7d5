package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultBatchWorkers = 4
	defaultMaxBatchSize = 100
)

// defaults returns the lowest-precedence configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"server.host":            "0.0.0.0",
		"server.port":            defaultServerPort,
		"server.read_timeout":    "5s",
		"server.write_timeout":   "10s",
		"server.idle_timeout":    "120s",
		"server.request_timeout": "8s",

		"log.level":  "info",
		"log.format": "json",

		"mutations.raise_on_error": false,
		"mutations.disabled":       []string{},
		"mutations.batch_workers":  defaultBatchWorkers,
		"mutations.max_batch_size": defaultMaxBatchSize,

		"notifier.base_url":                        "http://localhost:8081",
		"notifier.timeout":                         "10s",
		"notifier.retry.max_attempts":              defaultRetryMaxAttempts,
		"notifier.retry.initial_interval":          "100ms",
		"notifier.retry.max_interval":              "5s",
		"notifier.retry.multiplier":                defaultRetryMultiplier,
		"notifier.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"notifier.circuit_breaker.timeout":         "30s",
		"notifier.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"notifier.rate_limit.requests_per_second":  0,
		"notifier.rate_limit.burst_size":           1,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "mutations",
	}
}
