package validator

import (
	"errors"
	"strings"
	"testing"

	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
	"clinicbook/pkg/validation"
)

func validBooking() *model.Booking {
	return &model.Booking{
		ProviderID: " prov-1 ",
		SubjectID:  "patient-1",
		Date:       " 2025-07-03 ",
		Time:       "9:00",
	}
}

func TestValidate_Rejects(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), []string{"US"})

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
	}{
		{"missing provider", func(b *model.Booking) { b.ProviderID = "  " }, "provider_id"},
		{"missing subject", func(b *model.Booking) { b.SubjectID = "" }, "subject_id"},
		{"bad date", func(b *model.Booking) { b.Date = "03/07/2025" }, "date"},
		{"bad time", func(b *model.Booking) { b.Time = "25:00" }, "time"},
		{"notes too long", func(b *model.Booking) { b.Notes = strings.Repeat("x", 1001) }, "notes"},
		{"blank detail key", func(b *model.Booking) { b.SubjectDetails = map[string]string{"   ": "x"} }, "subject_details"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			var verrs validation.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, verrs[0].Field)
			}
		})
	}
}

func TestValidate_Normalizes(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), []string{"US"})
	b := validBooking()
	b.Notes = "  knee pain\x00 "
	b.SubjectDetails = map[string]string{"Phone": " (201) 555-0123 ", "Full Name": "Amani  Otieno"}

	if err := v.Validate(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ProviderID != "prov-1" || b.Date != "2025-07-03" || b.Time != "09:00" || b.Notes != "knee pain" {
		t.Errorf("unexpected normalization %+v", b)
	}
	if b.SubjectDetails["phone"] != "+12015550123" || b.SubjectDetails["full_name"] != "Amani Otieno" {
		t.Errorf("unexpected details %v", b.SubjectDetails)
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), nil)

	u := &model.BookingStatusUpdate{Status: " Cancelled ", Reason: " sick "}
	if err := v.ValidateStatusUpdate(u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Status != "cancelled" || u.Reason != "sick" {
		t.Errorf("unexpected normalization %+v", u)
	}

	if err := v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: "  "}); err == nil {
		t.Error("expected an error for an empty status")
	}
}
