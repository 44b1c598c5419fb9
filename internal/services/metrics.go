// Package services – Prometheus collectors for the matching pipeline.
//
// Counters here cover the business-level signals operators alert on: how many
// sessions get created, how often the allocator degrades, and how inbound
// notifications fare. HTTP-level metrics live in the middleware package.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// sessionsCreated counts successfully created payment sessions.
	sessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_sessions_created_total",
		Help: "Total number of payment sessions created.",
	})

	// allocatorFallbacks counts allocator degradations by kind:
	// "decimal" when the integer pool was exhausted, "unreserved" when even
	// the decimal space was exhausted and an unreserved amount was returned.
	allocatorFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amount_allocator_fallbacks_total",
		Help: "Allocator degradations by kind (decimal, unreserved).",
	}, []string{"kind"})

	// notificationsIgnored counts inbound texts that produced no match, by
	// reason: "source", "marker", "no_amount", "no_session".
	notificationsIgnored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_notifications_ignored_total",
		Help: "Inbound notifications that produced no delivery, by reason.",
	}, []string{"reason"})

	// paymentsMatched counts sessions delivered after a matching notification.
	paymentsMatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_matched_total",
		Help: "Total number of sessions matched and handed to delivery.",
	})

	// deliveryFailures counts delivery callback errors. Matched sessions are
	// still closed when delivery fails, so this is the operator's only signal.
	deliveryFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_delivery_failures_total",
		Help: "Total number of failed delivery callbacks.",
	})
)

func init() {
	prometheus.MustRegister(
		sessionsCreated,
		allocatorFallbacks,
		notificationsIgnored,
		paymentsMatched,
		deliveryFailures,
	)
}
