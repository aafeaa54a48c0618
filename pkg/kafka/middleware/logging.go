package kafka_middleware

import (
	"context"
	"time"

	"clinicbook/pkg/kafka"
	"clinicbook/pkg/logger"
)

// LoggingProducerMiddleware logs every publish attempt with its outcome and latency.
func LoggingProducerMiddleware(log *logger.Logger, topic string) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.PublishFunc) error {
		start := time.Now()

		err := next(ctx, msg)

		attrs := []any{
			"topic", topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"correlation_id", msg.GetCorrelationID(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Error("Failed to publish message", append(attrs, "error", err)...)
			return err
		}
		log.Debug("Published message", attrs...)
		return nil
	}
}
