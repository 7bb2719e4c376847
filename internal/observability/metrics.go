package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// UpstreamFetches counts dashboard fetches by endpoint and outcome
	// (ok, network, status, malformed).
	UpstreamFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_upstream_fetches_total",
			Help: "Upstream fetches performed by the dashboard.",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream fetches.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// FlowRuns counts statistics and map flow completions by outcome.
	FlowRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_flow_runs_total",
			Help: "Dashboard flow runs by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)

	SiteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sites_requests_total",
			Help: "Requests served by the site data endpoints.",
		},
		[]string{"endpoint", "outcome"},
	)

	ObservationsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sites_observations_ingested_total",
			Help: "Observations received over MQTT by outcome.",
		},
		[]string{"outcome"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method and status code.",
		},
		[]string{"method", "code"},
	)
)

func init() {
	prometheus.MustRegister(UpstreamFetches)
	prometheus.MustRegister(UpstreamFetchDuration)
	prometheus.MustRegister(FlowRuns)
	prometheus.MustRegister(SiteRequests)
	prometheus.MustRegister(ObservationsIngested)
	prometheus.MustRegister(HTTPRequests)
}

// MetricsHandler serves the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
