package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the booking reactor.
type Metrics struct {
	ReactorRuns             *prometheus.CounterVec
	NotificationsCreated    *prometheus.CounterVec
	NotificationsDuplicated prometheus.Counter
	PickupCodesIssued       prometheus.Counter
	PickupCodesReused       prometheus.Counter
	NoticeFailures          prometheus.Counter
	ReconcileRuns           *prometheus.CounterVec
	ConsumedEvents          *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction never collides.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		ReactorRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_reactor_runs_total",
			Help: "Lifecycle reactor invocations by outcome",
		}, []string{"outcome"}),

		NotificationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_notifications_created_total",
			Help: "Notifications persisted by recipient role",
		}, []string{"role"}),

		NotificationsDuplicated: f.NewCounter(prometheus.CounterOpts{
			Name: "booking_notifications_deduplicated_total",
			Help: "Notification submissions absorbed because the tuple already existed",
		}),

		PickupCodesIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "booking_pickup_codes_issued_total",
			Help: "Pickup codes created",
		}),

		PickupCodesReused: f.NewCounter(prometheus.CounterOpts{
			Name: "booking_pickup_codes_reused_total",
			Help: "Issuance attempts that returned an existing code",
		}),

		NoticeFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "booking_outbound_notice_failures_total",
			Help: "Best-effort outbound notices that failed",
		}),

		ReconcileRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_reconcile_bookings_total",
			Help: "Bookings visited by the reconciler by outcome",
		}, []string{"outcome"}),

		ConsumedEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_transition_events_consumed_total",
			Help: "Transition events taken from the broker by outcome",
		}, []string{"outcome"}),
	}
}
