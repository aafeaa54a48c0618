package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"clinicbook/pkg/kafka"
	"clinicbook/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func message(t *testing.T, eventType string) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey("patient-1").WithValue(map[string]string{"a": "b"}).WithEventType(eventType).Build()
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	return msg
}

func TestProducerMetrics_CountsResults(t *testing.T) {
	m := NewProducerMetrics(prometheus.NewRegistry())
	mw := m.Middleware()

	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("broker down") }

	_ = mw(context.Background(), message(t, "booking.created"), ok)
	_ = mw(context.Background(), message(t, "booking.created"), ok)
	if err := mw(context.Background(), message(t, "booking.cancelled"), fail); err == nil {
		t.Fatal("expected the downstream error to be returned")
	}

	if got := counterValue(t, m.published.WithLabelValues("booking.created", resultSuccess)); got != 2 {
		t.Errorf("expected 2 successes, got %v", got)
	}
	if got := counterValue(t, m.published.WithLabelValues("booking.cancelled", resultFailure)); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

func TestLoggingProducerMiddleware_PassesThrough(t *testing.T) {
	mw := LoggingProducerMiddleware(logger.Discard(), "clinic.notifications")
	wantErr := errors.New("broker down")

	err := mw(context.Background(), message(t, "booking.created"), func(ctx context.Context, msg kafka.Message) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}
