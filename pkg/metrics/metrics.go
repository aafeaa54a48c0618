package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeCreated  = "created"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
)

// BookingMetrics exposes counters for booking creation, status changes and
// cascading cancellations. A nil *BookingMetrics is a valid no-op.
type BookingMetrics struct {
	bookingsTotal         *prometheus.CounterVec
	statusTransitions     *prometheus.CounterVec
	cascadeCancellations  *prometheus.CounterVec
	cascadeFailures       prometheus.Counter
	availabilityMutations *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "bookings",
			Name:      "create_attempts_total",
			Help:      "Booking create attempts by outcome",
		}, []string{"outcome"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "bookings",
			Name:      "status_transitions_total",
			Help:      "Applied booking status transitions",
		}, []string{"from", "to"}),
		cascadeCancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "schedules",
			Name:      "cascade_cancellations_total",
			Help:      "Bookings cancelled because their availability window changed",
		}, []string{"reason"}),
		cascadeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "schedules",
			Name:      "cascade_failures_total",
			Help:      "Cascading cancellations that could not be applied",
		}),
		availabilityMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "schedules",
			Name:      "availability_mutations_total",
			Help:      "Availability window writes by kind",
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.statusTransitions, m.cascadeCancellations, m.cascadeFailures, m.availabilityMutations)
	return m
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveCascadeCancellation(reason string) {
	if m == nil {
		return
	}
	m.cascadeCancellations.WithLabelValues(reason).Inc()
}

func (m *BookingMetrics) ObserveCascadeFailure() {
	if m == nil {
		return
	}
	m.cascadeFailures.Inc()
}

// ObserveAvailabilityMutation records a window write; kind is "rest_day",
// "explicit_slots", "range" or "deleted".
func (m *BookingMetrics) ObserveAvailabilityMutation(kind string) {
	if m == nil {
		return
	}
	m.availabilityMutations.WithLabelValues(kind).Inc()
}
