package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Phone Number":   "phone_number",
		"  e-mail  ":     "e_mail",
		"__Guardian__":   "guardian",
		"Näme":           "näme",
		"!!!":            "",
		"already_normal": "already_normal",
	}

	for in, want := range tests {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
		if again := NormalizeKey(NormalizeKey(in)); again != want {
			t.Errorf("NormalizeKey is not idempotent for %q: %q", in, again)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		regions []string
		want    string
	}{
		{"international", "+1 (201) 555-0123", []string{"IL"}, "+12015550123"},
		{"local US", "(201) 555-0123", []string{"US"}, "+12015550123"},
		{"local IL", "050-234-5678", []string{"US", "IL"}, "+972502345678"},
		{"not a phone", "call my mum", []string{"US"}, "call my mum"},
		{"no regions", "201 555 0123", nil, "201 555 0123"},
		{"trimmed", "  ", []string{"US"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone, tt.regions...); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestNormalizeNotes(t *testing.T) {
	in := "  first line\r\nsecond\x00 line\x07\t end  "
	want := "first line\nsecond line\t end"
	if got := NormalizeNotes(in); got != want {
		t.Errorf("NormalizeNotes() = %q, want %q", got, want)
	}
}

func TestSubjectDetails(t *testing.T) {
	got := SubjectDetails(map[string]string{
		"Name":         "  Amani   Otieno ",
		"Phone Number": "(201) 555-0123",
		"phone_number": "+44 20 7946 0958",
		"Allergies":    "penicillin",
	}, "US")

	want := map[string]string{
		"name":         "Amani Otieno",
		"phone_number": "+12015550123",
		"allergies":    "penicillin",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SubjectDetails() = %v, want %v", got, want)
	}

	if out := SubjectDetails(nil); out != nil {
		t.Errorf("expected nil passthrough, got %v", out)
	}
}
