package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetmate",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by kind (self, admin, recurring).",
		},
		[]string{"kind"},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetmate",
			Name:      "booking_conflicts_total",
			Help:      "Count of booking attempts rejected because the slot was taken.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetmate",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	seriesOccurrences = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetmate",
			Name:      "series_occurrences_total",
			Help:      "Count of recurring-series occurrences by outcome (created, skipped, failed).",
		},
		[]string{"outcome"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetmate",
			Name:      "http_requests_total",
			Help:      "Count of API requests by handler.",
		},
		[]string{"handler"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingConflicts, bookingCancelled, seriesOccurrences, httpRequests)
	})
}

func IncBookingCreated(kind string) {
	bookingCreated.WithLabelValues(kind).Inc()
}

func IncBookingConflict() {
	bookingConflicts.Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncSeriesOccurrence(outcome string) {
	seriesOccurrences.WithLabelValues(outcome).Inc()
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}
