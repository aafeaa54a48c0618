package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/pkg/config"
	mongodb "clinicbook/pkg/db/mongo"
	"clinicbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusChange describes a status transition to persist.
type StatusChange struct {
	To     model.BookingStatus
	Reason string
	Actor  string
	At     time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindActiveBySlot(ctx context.Context, providerID, date, hhmm string) (*model.Booking, error)
	FindActiveByProviderAndDate(ctx context.Context, providerID, date string) ([]*model.Booking, error)
	CountActiveByProviderAndDate(ctx context.Context, providerID, date string) (int64, error)
	FindByProviderAndDate(ctx context.Context, providerID, date string, limit int, offset int64) ([]*model.Booking, error)
	CountByProviderAndDate(ctx context.Context, providerID, date string) (int64, error)
	UpdateStatus(ctx context.Context, id string, from model.BookingStatus, change StatusChange) (*model.Booking, error)
	Cancel(ctx context.Context, id, reason, actor string, at time.Time) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongodb.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.BookingsCollection),
		txManager:  mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

// Create inserts the booking. A collision on the partial unique index over
// active (provider_id, date, time) is reported as ErrDuplicate.
func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Active = booking.Status.IsActive()

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s %s %s", bookingserrors.ErrDuplicate, booking.ProviderID, booking.Date, booking.Time)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

// FindActiveBySlot returns the active booking holding the slot, or ErrNotFound.
func (r *mongoBookingRepository) FindActiveBySlot(ctx context.Context, providerID, date, hhmm string) (*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "date": date, "time": hhmm, "active": true}

	var booking model.Booking
	if err := r.collection.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by slot: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindActiveByProviderAndDate(ctx context.Context, providerID, date string) ([]*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "date": date, "active": true}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepository) CountActiveByProviderAndDate(ctx context.Context, providerID, date string) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"provider_id": providerID, "date": date, "active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindByProviderAndDate(ctx context.Context, providerID, date string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "time", Value: 1}, {Key: "created_at", Value: 1}})

	return r.find(ctx, bson.M{"provider_id": providerID, "date": date}, opts)
}

func (r *mongoBookingRepository) CountByProviderAndDate(ctx context.Context, providerID, date string) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"provider_id": providerID, "date": date})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// UpdateStatus applies change only if the booking is still in status from, and
// returns the updated booking. A lost race is reported as ErrStaleStatus.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from model.BookingStatus, change StatusChange) (*model.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": from}
	booking, err := r.applyStatus(ctx, filter, change)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrStaleStatus, id)
	}
	return booking, err
}

// Cancel cancels the booking if it is still pending or confirmed. A booking
// that is already cancelled or completed is reported as ErrNotActive.
func (r *mongoBookingRepository) Cancel(ctx context.Context, id, reason, actor string, at time.Time) (*model.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"active": true,
		"status": bson.M{"$in": []model.BookingStatus{model.StatusPending, model.StatusConfirmed}},
	}
	booking, err := r.applyStatus(ctx, filter, StatusChange{
		To:     model.StatusCancelled,
		Reason: reason,
		Actor:  actor,
		At:     at,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotActive, id)
	}
	return booking, err
}

func (r *mongoBookingRepository) applyStatus(ctx context.Context, filter bson.M, change StatusChange) (*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	at := change.At.UTC().Truncate(time.Millisecond)
	set := bson.M{
		"status":     change.To,
		"active":     change.To.IsActive(),
		"updated_at": at,
	}
	if change.To == model.StatusCancelled {
		set["cancelled_at"] = at
		set["cancelled_by"] = change.Actor
		if change.Reason != "" {
			set["cancellation_reason"] = change.Reason
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		// Moving back to an active status collides if another booking took the slot.
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %v", bookingserrors.ErrDuplicate, filter["_id"])
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
