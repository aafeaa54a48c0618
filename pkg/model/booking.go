package model

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsActive reports whether a booking in this status still occupies its slot.
// Only cancellation frees a slot; a completed visit keeps it.
func (s BookingStatus) IsActive() bool {
	return s != StatusCancelled
}

// IsTerminal reports whether no further transitions are allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Booking struct {
	ID                 string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID         string            `json:"provider_id" bson:"provider_id" validate:"required,max=64"`
	SubjectID          string            `json:"subject_id" bson:"subject_id" validate:"required,max=64"`
	BookerID           string            `json:"booker_id" bson:"booker_id" validate:"omitempty,max=64"`
	Date               string            `json:"date" bson:"date" validate:"required,iso_date"`
	Time               string            `json:"time" bson:"time" validate:"required,clock"`
	Status             BookingStatus     `json:"status" bson:"status"`
	Active             bool              `json:"-" bson:"active"`
	IsFirstVisit       bool              `json:"is_first_visit" bson:"is_first_visit"`
	Notes              string            `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`
	SubjectDetails     map[string]string `json:"subject_details,omitempty" bson:"subject_details,omitempty" validate:"omitempty,subject_details"`
	CancellationReason string            `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	CancelledBy        string            `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at" bson:"updated_at"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// SlotLock is a short-lived advisory lock on one provider/date/time slot.
// Its _id is derived from the slot so two holders collide on the unique index.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
