package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"eaglebank/internal/platform/metrics"
	"eaglebank/pkg/requestcontext"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logger logs one line per request and records the latency histogram. route
// is resolved after the handler ran so chi reports the pattern, not the raw
// path.
func Logger(logger *slog.Logger, m *metrics.Metrics, routePattern func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if routePattern != nil {
				if pattern := routePattern(r); pattern != "" {
					route = pattern
				}
			}
			elapsed := time.Since(start)

			m.ObserveRequestDuration(route, r.Method, strconv.Itoa(rec.status), elapsed)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"route", route,
				"status", rec.status,
				"duration_ms", elapsed.Milliseconds(),
				"request_id", requestcontext.RequestID(r.Context()),
			)
		})
	}
}
