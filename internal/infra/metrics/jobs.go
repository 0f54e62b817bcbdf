package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsExpired,
		journalReplayed,
	)
}

var (
	subscriptionsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "subscriptions_expired_total",
		Help: "Active subscriptions moved to expired by the expiry worker.",
	})

	journalReplayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_journal_replayed_total",
			Help: "Staged journal entries re-driven into the ledger by result.",
		},
		[]string{"result"}, // landed|retry
	)
)

func IncSubscriptionsExpired(n int) {
	if n > 0 {
		subscriptionsExpired.Add(float64(n))
	}
}

func IncJournalReplayed(result string) { journalReplayed.WithLabelValues(result).Inc() }
