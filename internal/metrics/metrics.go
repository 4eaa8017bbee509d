package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphile_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphile_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	SchemaExports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphile_schema_exports_total",
			Help: "Total number of introspection schema exports",
		},
		[]string{"target", "result"},
	)
	EndpointRegistrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphile_endpoint_registrations_total",
			Help: "Total number of endpoint registry writes",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(SchemaExports)
	prometheus.MustRegister(EndpointRegistrations)
}

// Result turns an error into the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// NewServer returns the Prometheus scrape server listening on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux}
}

// Serve runs the scrape server until it is shut down.
func Serve(server *http.Server) {
	slog.Info("Starting Prometheus metrics server", "addr", server.Addr, "path", "/metrics")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Prometheus metrics server error", "err", err)
	}
}
