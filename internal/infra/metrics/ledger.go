package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		LedgerWrites,
		EntitlementUpdates,
	)
}

var (
	// Ledger write attempts grouped by path and outcome.
	// path: primary|fallback
	// outcome: recorded|duplicate_ignored|failed
	LedgerWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_ledger_writes_total",
			Help: "Payment ledger write attempts by path and outcome.",
		},
		[]string{"path", "outcome"},
	)

	// Entitlement propagation results.
	// status: updated|no_user|error
	EntitlementUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_entitlement_updates_total",
			Help: "User entitlement updates after activation by status.",
		},
		[]string{"status"},
	)
)
