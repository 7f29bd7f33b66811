package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the purchase path and catalog queries.
var (
	PurchaseAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_attempts_total",
			Help: "Total number of ticket purchase attempts",
		},
	)

	PurchasesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_completed_total",
			Help: "Total number of completed ticket purchases",
		},
	)

	ReservationsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Total number of reservations rejected for missing events or insufficient tickets",
		},
	)

	PurchaseDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "purchase_duration_seconds",
			Help:    "Duration of the reserve-and-record purchase path",
			Buckets: prometheus.DefBuckets,
		},
	)

	PopularEventsRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "popular_events_requests_total",
			Help: "Total number of popularity ranking requests",
		},
	)
)

// Register registers all metrics with the default registry.
func Register() {
	prometheus.MustRegister(PurchaseAttemptsTotal)
	prometheus.MustRegister(PurchasesCompletedTotal)
	prometheus.MustRegister(ReservationsRejectedTotal)
	prometheus.MustRegister(PurchaseDuration)
	prometheus.MustRegister(PopularEventsRequestsTotal)
}
