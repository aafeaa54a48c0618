package model

import "time"

// AvailabilityWindow is a provider's declared working hours for one calendar date.
// A rest-day window offers no slots; a window with explicit slots offers exactly
// those; otherwise slots are generated from the start/end range.
type AvailabilityWindow struct {
	ID                  string    `json:"id,omitempty" bson:"_id,omitempty"`
	ProviderID          string    `json:"provider_id" bson:"provider_id" validate:"required,max=64"`
	Date                string    `json:"date" bson:"date" validate:"required,iso_date"`
	StartTime           string    `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,clock"`
	EndTime             string    `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,clock_boundary"`
	SlotDurationMinutes int       `json:"slot_duration_minutes" bson:"slot_duration_minutes" validate:"min=1,max=1440"`
	IsRestDay           bool      `json:"is_rest_day" bson:"is_rest_day"`
	ExplicitSlots       []string  `json:"explicit_slots,omitempty" bson:"explicit_slots,omitempty" validate:"omitempty,dive,clock"`
	UpdatedBy           string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

// HasExplicitSlots reports whether the window enumerates its slots.
func (w *AvailabilityWindow) HasExplicitSlots() bool {
	return len(w.ExplicitSlots) > 0
}

// AvailableSlots is the answer to "which slots can still be booked on this date".
type AvailableSlots struct {
	ProviderID     string   `json:"provider_id"`
	Date           string   `json:"date"`
	IsRestDay      bool     `json:"is_rest_day"`
	ExplicitSlots  []string `json:"explicit_slots"` // the window's override list, empty outside explicit mode
	AvailableSlots []string `json:"available_slots"`
}

// UpsertResult reports the stored window and any bookings the change displaced.
type UpsertResult struct {
	Window              *AvailabilityWindow `json:"window"`
	CancelledBookingIDs []string            `json:"cancelled_booking_ids"`
	Warnings            []string            `json:"warnings,omitempty"`
}
