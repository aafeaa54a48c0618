package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/pkg/config"
	mongodb "clinicbook/pkg/db/mongo"
	"clinicbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SlotLockRepository manages short-lived advisory locks on booking slots.
type SlotLockRepository interface {
	Acquire(ctx context.Context, lockID, owner string, ttl time.Duration) error
	Release(ctx context.Context, lockID, owner string) error
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.BookingLocksCollection),
	}
}

// SlotLockID derives the lock id for a provider/date/time slot.
func SlotLockID(providerID, date, hhmm string) string {
	return fmt.Sprintf("slot_lock_%s_%s_%s", providerID, date, hhmm)
}

// Acquire inserts the lock document. The TTL monitor only sweeps about once a
// minute, so a lock found past its expiry is reaped here and the insert retried once.
// A live lock held by someone else is reported as ErrLockHeld.
func (r *mongoSlotLockRepository) Acquire(ctx context.Context, lockID, owner string, ttl time.Duration) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	for attempt := 0; attempt < 2; attempt++ {
		now := time.Now().UTC()
		_, err := r.collection.InsertOne(ctx, model.SlotLock{
			ID:        lockID,
			Owner:     owner,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		})
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to acquire slot lock: %w", err)
		}

		reaped, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "expires_at": bson.M{"$lt": now}})
		if err != nil {
			return fmt.Errorf("failed to reap expired slot lock: %w", err)
		}
		if reaped.DeletedCount == 0 {
			break
		}
	}
	return fmt.Errorf("%w: %s", bookingserrors.ErrLockHeld, lockID)
}

// Release deletes the lock if owner still holds it.
func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID, owner string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner}); err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}
