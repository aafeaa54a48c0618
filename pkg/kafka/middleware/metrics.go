package kafka_middleware

import (
	"context"
	"time"

	"clinicbook/pkg/kafka"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// ProducerMetrics counts publishes per event type and observes their latency.
type ProducerMetrics struct {
	published *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func NewProducerMetrics(reg prometheus.Registerer) *ProducerMetrics {
	m := &ProducerMetrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicbook",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Kafka publish attempts by event type and result.",
		}, []string{"event_type", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinicbook",
			Subsystem: "kafka",
			Name:      "publish_duration_seconds",
			Help:      "Latency of Kafka publish attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.published, m.duration)
	return m
}

// Middleware records every publish that passes through the producer.
func (m *ProducerMetrics) Middleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.PublishFunc) error {
		start := time.Now()
		err := next(ctx, msg)

		eventType := msg.GetEventType()
		result := resultSuccess
		if err != nil {
			result = resultFailure
		}
		m.published.WithLabelValues(eventType, result).Inc()
		m.duration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
		return err
	}
}
