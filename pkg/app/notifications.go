package app

import (
	"context"

	"clinicbook/pkg/config"
	"clinicbook/pkg/kafka"
	kafka_config "clinicbook/pkg/kafka/config"
	kafka_middleware "clinicbook/pkg/kafka/middleware"
	"clinicbook/pkg/notify"

	"github.com/prometheus/client_golang/prometheus"
)

// NewNotifier builds the service's notification sink: Kafka when enabled,
// the service log otherwise. Delivery is always asynchronous. The returned
// ShutdownFunc drains in-flight sends and closes the producer.
func NewNotifier(cfg *config.Config, source string, reg prometheus.Registerer) (*notify.Async, ShutdownFunc) {
	log := cfg.Log.Component("notifications")

	if !cfg.NotificationsEnabled {
		log.Info("Kafka notifications disabled, logging events instead")
		async := notify.NewAsync(notify.NewLogNotifier(log), cfg.NotificationTimeout, log)
		return async, async.Wait
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(log)

	producer, err := kafka.NewProducer(kafkaCfg, log)
	if err != nil {
		log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.NewProducerMetrics(reg).Middleware())
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log, producer.Topic()))

	async := notify.NewAsync(notify.NewKafkaNotifier(producer, source, log), cfg.NotificationTimeout, log)
	return async, func(ctx context.Context) error {
		waitErr := async.Wait(ctx)
		if err := producer.Close(); err != nil {
			return err
		}
		return waitErr
	}
}
