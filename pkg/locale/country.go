package locale

import (
	"strings"
)

const (
	DefaultRegion = "US"
)

type Country struct {
	Code            string // ISO 3166-1 alpha-2 code, also the phone parsing region
	Name            string
	DefaultTimezone string
}

var (
	Countries = map[string]Country{
		"IL": {Code: "IL", Name: "Israel", DefaultTimezone: "Asia/Jerusalem"},
		"US": {Code: "US", Name: "United States", DefaultTimezone: "America/New_York"},
		"GB": {Code: "GB", Name: "United Kingdom", DefaultTimezone: "Europe/London"},
		"KE": {Code: "KE", Name: "Kenya", DefaultTimezone: "Africa/Nairobi"},
		"DE": {Code: "DE", Name: "Germany", DefaultTimezone: "Europe/Berlin"},
	}

	TimeZoneTags = map[string][]string{
		"IL": {"Asia/Jerusalem", "Israel", "Asia/Tel_Aviv"},
		"US": {"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles", "US/Eastern", "US/Central", "US/Pacific"},
		"GB": {"Europe/London", "GB"},
		"KE": {"Africa/Nairobi"},
		"DE": {"Europe/Berlin"},
	}
)

// DetectRegion maps a clinic time zone to the region used for parsing local
// phone numbers. Unknown zones fall back to DefaultRegion.
func DetectRegion(tz string) string {
	for region, zones := range TimeZoneTags {
		for _, z := range zones {
			if strings.EqualFold(tz, z) {
				return region
			}
		}
	}
	return DefaultRegion
}

// PhoneRegions returns the parsing regions for a clinic: the explicitly
// configured ones when present, otherwise the region of its time zone.
// Unknown region codes are dropped.
func PhoneRegions(configured []string, tz string) []string {
	var regions []string
	seen := map[string]struct{}{}
	for _, r := range configured {
		r = strings.ToUpper(strings.TrimSpace(r))
		if _, ok := Countries[r]; !ok {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		regions = append(regions, r)
	}
	if len(regions) == 0 {
		regions = []string{DetectRegion(tz)}
	}
	return regions
}
