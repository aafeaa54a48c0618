package kafka

import (
	"context"
	"errors"
	"testing"

	kafka_config "clinicbook/pkg/kafka/config"
	"clinicbook/pkg/logger"
)

func testConfig() *kafka_config.Config {
	return &kafka_config.Config{
		Brokers:             []string{"localhost:9092"},
		NotificationTopic:   "clinic.notifications",
		ProducerMaxAttempts: 1,
		ProducerCompression: "snappy",
		ProducerRequireAcks: -1,
	}
}

func TestNewProducer_RequiresTopic(t *testing.T) {
	cfg := testConfig()
	cfg.NotificationTopic = ""

	if _, err := NewProducer(cfg, logger.Discard()); err == nil {
		t.Fatal("expected error for empty topic")
	}
	if _, err := NewProducer(nil, logger.Discard()); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestPublish_RejectsInvalidMessages(t *testing.T) {
	p, err := NewProducer(testConfig(), logger.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()

	if err := p.Publish(context.Background(), Message{Value: []byte("{}")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "user-1"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
}

func TestPublish_AfterCloseFails(t *testing.T) {
	p, err := NewProducer(testConfig(), logger.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("v")}); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}

func TestChain_RunsMiddlewareInOrder(t *testing.T) {
	var order []string
	mw := func(name string) ProducerMiddleware {
		return func(ctx context.Context, msg Message, next PublishFunc) error {
			order = append(order, name)
			return next(ctx, msg)
		}
	}
	final := func(ctx context.Context, msg Message) error {
		order = append(order, "final")
		return nil
	}

	if err := Chain(final, mw("first"), mw("second"))(context.Background(), Message{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"first", "second", "final"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("patient-1").
		WithValue(map[string]string{"booking_id": "b1"}).
		WithEventType("booking.created").
		WithSource("bookings").
		WithCorrelationID("").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.GetEventID() == "" {
		t.Error("expected an event id to be generated")
	}
	if msg.GetEventType() != "booking.created" {
		t.Errorf("unexpected event type %q", msg.GetEventType())
	}
	if _, ok := msg.Headers[HeaderCorrelationID]; ok {
		t.Error("empty correlation id should not be set")
	}
	if string(msg.Value) != `{"booking_id":"b1"}` {
		t.Errorf("unexpected value %s", msg.Value)
	}

	if _, err := NewMessage().WithKey("k").WithValue(func() {}).Build(); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload, got %v", err)
	}
}
