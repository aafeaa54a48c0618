package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleserrors "clinicbook/internal/schedules/errors"
	"clinicbook/pkg/config"
	mongodb "clinicbook/pkg/db/mongo"
	"clinicbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AvailabilityRepository interface {
	Upsert(ctx context.Context, w *model.AvailabilityWindow) (*model.AvailabilityWindow, error)
	FindByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityWindow, error)
	Delete(ctx context.Context, providerID, date string) error
}

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.AvailabilityWindowsCollection),
	}
}

// Upsert replaces the window for (provider_id, date), creating it if absent,
// and returns the stored document. Optional fields left empty are removed so a
// replaced window never keeps stale hours or slots.
func (r *mongoAvailabilityRepository) Upsert(ctx context.Context, w *model.AvailabilityWindow) (*model.AvailabilityWindow, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"provider_id":           w.ProviderID,
		"date":                  w.Date,
		"slot_duration_minutes": w.SlotDurationMinutes,
		"is_rest_day":           w.IsRestDay,
		"updated_at":            now,
	}
	unset := bson.M{}
	optional := map[string]any{
		"start_time":     w.StartTime,
		"end_time":       w.EndTime,
		"updated_by":     w.UpdatedBy,
		"explicit_slots": w.ExplicitSlots,
	}
	for field, value := range optional {
		if isEmpty(value) {
			unset[field] = ""
			continue
		}
		set[field] = value
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	filter := bson.M{"provider_id": w.ProviderID, "date": w.Date}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.AvailabilityWindow
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s/%s", scheduleserrors.ErrDuplicate, w.ProviderID, w.Date)
		}
		return nil, fmt.Errorf("failed to upsert availability window: %w", err)
	}
	return &stored, nil
}

func (r *mongoAvailabilityRepository) FindByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityWindow, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var w model.AvailabilityWindow
	err := r.collection.FindOne(ctx, bson.M{"provider_id": providerID, "date": date}).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s/%s", scheduleserrors.ErrNotFound, providerID, date)
		}
		return nil, fmt.Errorf("failed to find availability window: %w", err)
	}
	return &w, nil
}

func (r *mongoAvailabilityRepository) Delete(ctx context.Context, providerID, date string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"provider_id": providerID, "date": date})
	if err != nil {
		return fmt.Errorf("failed to delete availability window: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s/%s", scheduleserrors.ErrNotFound, providerID, date)
	}
	return nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	}
	return v == nil
}
