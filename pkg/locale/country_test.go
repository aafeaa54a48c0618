package locale

import (
	"reflect"
	"testing"
)

func TestDetectRegion(t *testing.T) {
	tests := []struct {
		tz   string
		want string
	}{
		{"Asia/Jerusalem", "IL"},
		{"america/los_angeles", "US"},
		{"Africa/Nairobi", "KE"},
		{"UTC", DefaultRegion},
		{"", DefaultRegion},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			if got := DetectRegion(tt.tz); got != tt.want {
				t.Errorf("DetectRegion(%q) = %q, want %q", tt.tz, got, tt.want)
			}
		})
	}
}

func TestPhoneRegions(t *testing.T) {
	tests := []struct {
		name       string
		configured []string
		tz         string
		want       []string
	}{
		{"configured wins", []string{"il", " US ", "IL"}, "Europe/London", []string{"IL", "US"}},
		{"unknown codes dropped", []string{"ZZ", "GB"}, "UTC", []string{"GB"}},
		{"falls back to time zone", nil, "Europe/Berlin", []string{"DE"}},
		{"only unknown codes", []string{"ZZ"}, "UTC", []string{DefaultRegion}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneRegions(tt.configured, tt.tz); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PhoneRegions() = %v, want %v", got, tt.want)
			}
		})
	}
}
