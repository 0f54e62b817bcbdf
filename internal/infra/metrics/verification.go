package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		VerifyRequests,
		VerifyDuration,
	)
}

var (
	// Count of verify calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): bad_json|missing_fields|order_not_found|bad_signature|conflict|activation_error|unknown
	VerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_verify_requests_total",
			Help: "Count of /api/v1/subscriptions/verify calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of the verify handler grouped by result.
	VerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subscription_verify_duration_seconds",
			Help:    "Duration of /api/v1/subscriptions/verify handler in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)
