package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen11/mutations/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/mutations/internal/platform/telemetry"
)

// Tests touching the global tracer provider do not run in parallel.

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	return exporter
}

// routed mounts the middleware on a chi router the way NewRouter does.
func routed(metrics *telemetry.Metrics, status int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.OpenTelemetry(metrics))
	r.Post("/api/v1/mutations/{name}/run", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})
	return r
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]any {
	attrs := make(map[attribute.Key]any)
	for _, a := range s.Attributes() {
		attrs[a.Key] = a.Value.AsInterface()
	}
	return attrs
}

func TestOpenTelemetry_NamesSpanByRoute(t *testing.T) {
	exporter := setupTracer(t)

	rec := httptest.NewRecorder()
	routed(nil, http.StatusOK).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/v1/mutations/signup/run", http.NoBody))

	spans := exporter.GetSpans().Snapshots()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP POST /api/v1/mutations/{name}/run", spans[0].Name())

	attrs := spanAttrs(spans[0])
	assert.Equal(t, "POST", attrs["http.method"])
	assert.Equal(t, "/api/v1/mutations/{name}/run", attrs["http.route"])
	assert.Equal(t, int64(http.StatusOK), attrs["http.status_code"])
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestOpenTelemetry_ErrorStatusOn5xx(t *testing.T) {
	exporter := setupTracer(t)

	routed(nil, http.StatusBadGateway).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/api/v1/mutations/signup/run", http.NoBody))

	spans := exporter.GetSpans().Snapshots()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestOpenTelemetry_ContinuesIncomingTrace(t *testing.T) {
	exporter := setupTracer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mutations/signup/run", http.NoBody)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	routed(nil, http.StatusOK).ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans().Snapshots()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
}

func TestOpenTelemetry_UnmatchedRoute(t *testing.T) {
	exporter := setupTracer(t)

	routed(nil, http.StatusOK).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))

	spans := exporter.GetSpans().Snapshots()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP GET unmatched", spans[0].Name())
}

func TestOpenTelemetry_RecordsServerMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(t.Context()) })

	metrics, err := telemetry.NewMetrics(mp)
	require.NoError(t, err)

	h := routed(metrics, http.StatusUnprocessableEntity)
	for range 3 {
		h.ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodPost, "/api/v1/mutations/signup/run", http.NoBody))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.request.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)

			dp := sum.DataPoints[0]
			assert.Equal(t, int64(3), dp.Value)
			result, _ := dp.Attributes.Value(telemetry.AttrResult)
			assert.Equal(t, telemetry.OutcomeInvalid, result.AsString())
			route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
			assert.Equal(t, "/api/v1/mutations/{name}/run", route.AsString())
			found = true
		}
	}
	assert.True(t, found, "http.server.request.total not recorded")
}
