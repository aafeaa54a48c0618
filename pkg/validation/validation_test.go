package validation

import (
	"errors"
	"strings"
	"testing"

	"clinicbook/pkg/logger"
)

type sample struct {
	Date    string            `json:"date" validate:"required,iso_date"`
	Time    string            `json:"time" validate:"required,clock"`
	End     string            `json:"end_time,omitempty" validate:"omitempty,clock_boundary"`
	Details map[string]string `json:"subject_details,omitempty" validate:"omitempty,subject_details"`
	Notes   string            `json:"notes,omitempty" validate:"omitempty,max=5"`
}

func TestNew_CustomTags(t *testing.T) {
	v := New(logger.Discard())

	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{"valid", sample{Date: "2025-07-02", Time: "09:00", End: "24:00"}, ""},
		{"bad date", sample{Date: "2025-13-01", Time: "09:00"}, "date"},
		{"bad time", sample{Date: "2025-07-02", Time: "24:00"}, "time"},
		{"bad boundary", sample{Date: "2025-07-02", Time: "09:00", End: "24:30"}, "end_time"},
		{"empty detail key", sample{Date: "2025-07-02", Time: "09:00", Details: map[string]string{" ": "x"}}, "subject_details"},
		{"notes too long", sample{Date: "2025-07-02", Time: "09:00", Notes: "abcdef"}, "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate(v.Struct(tt.in))
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, verrs[0].Field)
			}
		})
	}
}

func TestValidationErrors_ErrorAndDetails(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "date cannot be in the past"},
		{Field: "explicit_slots", Message: "explicit_slots must be strictly increasing"},
	}

	if !strings.Contains(errs.Error(), "2 error(s)") {
		t.Errorf("unexpected message: %s", errs.Error())
	}
	details := errs.Details()
	if details["date"] != "date cannot be in the past" {
		t.Errorf("unexpected details: %v", details)
	}
}

func TestTranslate_PassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("boom")
	if got := Translate(plain); got != plain {
		t.Errorf("expected plain error to pass through, got %v", got)
	}
	if Translate(nil) != nil {
		t.Error("expected nil")
	}
}
