package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"

	"github.com/jonno85/graphile-server/internal/metrics"
)

// otherPath labels every path not passed to Instrument, keeping the metric
// label set bounded.
const otherPath = "other"

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		slog.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
		)
	})
}

// Instrument records request counts and latencies. Paths other than routes
// are reported under a single label.
func Instrument(next http.Handler, routes ...string) http.Handler {
	known := make(map[string]bool, len(routes))
	for _, route := range routes {
		known[route] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		path := r.URL.Path
		if !known[path] {
			path = otherPath
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(m.Code)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(m.Duration.Seconds())
	})
}
