// Package notify delivers booking lifecycle events to the outside world.
// Delivery is best effort: a failed notification never fails the operation
// that triggered it.
package notify

import (
	"context"
	"sync"
	"time"

	"clinicbook/pkg/kafka"
	"clinicbook/pkg/logger"
)

const (
	EventBookingCreated       = "booking.created"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingStatusChanged = "booking.status_changed"

	schemaVersion = "1"
)

// Notifier sends event to recipient and reports whether it was accepted.
type Notifier interface {
	Notify(ctx context.Context, recipient, event string, payload map[string]any) bool
}

// Publisher is the part of the Kafka producer the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type Event struct {
	Recipient  string         `json:"recipient"`
	Event      string         `json:"event"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// KafkaNotifier publishes each notification as one message keyed by recipient.
type KafkaNotifier struct {
	publisher Publisher
	source    string
	log       *logger.Logger
}

func NewKafkaNotifier(publisher Publisher, source string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, source: source, log: log}
}

func (n *KafkaNotifier) Notify(ctx context.Context, recipient, event string, payload map[string]any) bool {
	if recipient == "" {
		return false
	}
	msg, err := kafka.NewMessage().
		WithKey(recipient).
		WithValue(Event{Recipient: recipient, Event: event, Payload: payload, OccurredAt: time.Now().UTC()}).
		WithEventType(event).
		WithSource(n.source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(CorrelationID(ctx)).
		Build()
	if err != nil {
		n.log.Error("Failed to build notification", "event", event, "recipient", recipient, "error", err)
		return false
	}
	if err := n.publisher.Publish(ctx, msg); err != nil {
		n.log.Warn("Failed to publish notification", "event", event, "recipient", recipient, "error", err)
		return false
	}
	return true
}

// LogNotifier records notifications in the service log. Used when Kafka is disabled.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, recipient, event string, payload map[string]any) bool {
	n.log.Info("Notification", "event", event, "recipient", recipient, "payload", payload)
	return true
}

// Async runs notifications on tracked goroutines so callers never wait on delivery.
// Each send gets its own timeout, detached from the request context.
type Async struct {
	next    Notifier
	timeout time.Duration
	log     *logger.Logger
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, timeout time.Duration, log *logger.Logger) *Async {
	return &Async{next: next, timeout: timeout, log: log}
}

// Notify schedules the send and always reports true.
func (a *Async) Notify(ctx context.Context, recipient, event string, payload map[string]any) bool {
	correlationID := CorrelationID(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		sendCtx, cancel := context.WithTimeout(WithCorrelationID(context.Background(), correlationID), a.timeout)
		defer cancel()

		if !a.next.Notify(sendCtx, recipient, event, payload) {
			a.log.Warn("Notification was not delivered", "event", event, "recipient", recipient)
		}
	}()
	return true
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recipients returns the distinct non-empty ids in order.
func Recipients(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Broadcast sends the same event to every recipient.
func Broadcast(ctx context.Context, n Notifier, recipients []string, event string, payload map[string]any) {
	for _, r := range recipients {
		n.Notify(ctx, r, event, payload)
	}
}

type correlationKey struct{}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
