package mongo

import (
	"testing"

	mongodb "clinicbook/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func findIndex(models []mongo.IndexModel, name string) *mongo.IndexModel {
	for i := range models {
		if models[i].Options != nil && models[i].Options.Name != nil && *models[i].Options.Name == name {
			return &models[i]
		}
	}
	return nil
}

func TestAvailabilityWindows_UniqueProviderDate(t *testing.T) {
	idx := findIndex(AvailabilityWindowsIndexes, mongodb.ProviderDateUniqueIndex)
	if idx == nil {
		t.Fatal("missing provider/date unique index")
	}
	if idx.Options.Unique == nil || !*idx.Options.Unique {
		t.Error("provider/date index must be unique")
	}
	keys := idx.Keys.(bson.D)
	if len(keys) != 2 || keys[0].Key != "provider_id" || keys[1].Key != "date" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestBookings_PartialUniqueOnActiveSlot(t *testing.T) {
	idx := findIndex(BookingsIndexes, mongodb.ProviderSlotActiveUniqueIndex)
	if idx == nil {
		t.Fatal("missing active slot unique index")
	}
	if idx.Options.Unique == nil || !*idx.Options.Unique {
		t.Error("active slot index must be unique")
	}
	filter, ok := idx.Options.PartialFilterExpression.(bson.D)
	if !ok || len(filter) != 1 || filter[0].Key != "active" || filter[0].Value != true {
		t.Errorf("expected partial filter on active:true, got %v", idx.Options.PartialFilterExpression)
	}
	keys := idx.Keys.(bson.D)
	if len(keys) != 3 || keys[2].Key != "time" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestBookingLocks_TTL(t *testing.T) {
	idx := findIndex(BookingLocksIndexes, mongodb.BookingLockTTLIndex)
	if idx == nil {
		t.Fatal("missing TTL index")
	}
	if idx.Options.ExpireAfterSeconds == nil || *idx.Options.ExpireAfterSeconds != 0 {
		t.Error("locks must expire at expires_at")
	}
}

func TestCollections_AllHaveValidators(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Collections() {
		if def.Validator["$jsonSchema"] == nil {
			t.Errorf("collection %s has no JSON schema", def.Name)
		}
		if len(def.Indexes) == 0 {
			t.Errorf("collection %s has no indexes", def.Name)
		}
		seen[def.Name] = true
	}
	for _, name := range []string{
		mongodb.AvailabilityWindowsCollection,
		mongodb.BookingsCollection,
		mongodb.UsersCollection,
		mongodb.BookingLocksCollection,
	} {
		if !seen[name] {
			t.Errorf("missing collection %s", name)
		}
	}
}
