package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"renewables-dashboard/internal/config"
)

func TestInitTracer_disabled(t *testing.T) {
	InitTracer(context.Background(), config.Config{TracingEnabled: false}, "test", "dev")
	if tracerProvider != nil {
		t.Fatal("tracer provider installed while tracing is disabled")
	}
	// Must not panic without a provider.
	ShutdownTracer()
}

func TestMetricsHandler(t *testing.T) {
	FlowRuns.WithLabelValues("statistics", OutcomeOK).Inc()
	UpstreamFetches.WithLabelValues("/stat", "status").Inc()
	ObservationsIngested.WithLabelValues(OutcomeError).Inc()

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	b, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := string(b)
	for _, want := range []string{
		`dashboard_flow_runs_total{flow="statistics",outcome="ok"}`,
		`dashboard_upstream_fetches_total{endpoint="/stat",outcome="status"}`,
		`sites_observations_ingested_total{outcome="error"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
