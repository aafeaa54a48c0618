package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestWithTimeout_AddsDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > time.Second {
		t.Errorf("deadline too far: %s", time.Until(deadline))
	}
}

func TestWithTimeout_KeepsEarlierDeadline(t *testing.T) {
	parent, cancelParent := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelParent()
	parentDeadline, _ := parent.Deadline()

	ctx, cancel := WithTimeout(parent, time.Minute)
	defer cancel()

	deadline, _ := ctx.Deadline()
	if !deadline.Equal(parentDeadline) {
		t.Errorf("expected parent deadline %s, got %s", parentDeadline, deadline)
	}
}

func TestWithTimeout_LeavesSessionContextAlone(t *testing.T) {
	sessCtx := mongo.NewSessionContext(context.Background(), nil)

	ctx, cancel := WithTimeout(sessCtx, time.Second)
	defer cancel()

	if ctx != sessCtx {
		t.Error("expected the session context to be returned unchanged")
	}
}
