package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nomadpi-assistant/internal/domain"
)

var (
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nomadpi_dispatch_total",
			Help: "Function calls by function name and outcome.",
		},
		[]string{"function", "outcome"},
	)
	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nomadpi_backend_requests_total",
			Help: "Requests to the device API by method and outcome.",
		},
		[]string{"method", "outcome"},
	)
	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nomadpi_backend_request_duration_seconds",
			Help:    "Latency of requests to the device API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(dispatchTotal, backendRequests, backendDuration)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveDispatch(function string, err error) {
	dispatchTotal.WithLabelValues(function, Outcome(err)).Inc()
}

func ObserveBackendRequest(method string, elapsed time.Duration, err error) {
	backendRequests.WithLabelValues(method, Outcome(err)).Inc()
	backendDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Outcome buckets an error into a low-cardinality label value.
func Outcome(err error) string {
	var (
		validation  *domain.ValidationError
		unsupported *domain.UnsupportedFunctionError
		unknown     *domain.UnknownResourceTypeError
		notFound    *domain.ResourceNotFoundError
		integration *domain.IntegrationError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validation):
		return "invalid"
	case errors.As(err, &unsupported):
		return "unsupported"
	case errors.As(err, &unknown):
		return "unknown_type"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &integration):
		if integration.Timeout {
			return "timeout"
		}
		return "backend_error"
	default:
		return "error"
	}
}
