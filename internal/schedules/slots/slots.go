// Package slots computes the bookable start times an availability window offers.
package slots

import (
	"slices"

	"clinicbook/pkg/model"
	"clinicbook/pkg/timeutil"
)

// Generate returns the window's slot start times in ascending order.
// A rest day offers nothing, explicit slots are returned as given, and a
// start/end range is stepped by the slot duration while the start is before end.
// Windows with an unparseable range or a non-positive duration yield no slots.
func Generate(w *model.AvailabilityWindow) []string {
	if w == nil || w.IsRestDay {
		return []string{}
	}
	if w.HasExplicitSlots() {
		return slices.Clone(w.ExplicitSlots)
	}

	start, err := timeutil.ParseClock(w.StartTime)
	if err != nil {
		return []string{}
	}
	end, err := timeutil.ParseBoundary(w.EndTime)
	if err != nil || w.SlotDurationMinutes <= 0 {
		return []string{}
	}

	out := make([]string, 0, max(0, (end-start+w.SlotDurationMinutes-1)/w.SlotDurationMinutes))
	for m := start; m < end; m += w.SlotDurationMinutes {
		out = append(out, timeutil.FormatClock(m))
	}
	return out
}

// Contains reports whether the window offers a slot starting at hhmm.
func Contains(w *model.AvailabilityWindow, hhmm string) bool {
	return slices.Contains(Generate(w), hhmm)
}

// WithinHours reports whether hhmm falls in the window's [start, end) range.
func WithinHours(w *model.AvailabilityWindow, hhmm string) bool {
	t, err := timeutil.ParseClock(hhmm)
	if err != nil {
		return false
	}
	start, err := timeutil.ParseClock(w.StartTime)
	if err != nil {
		return false
	}
	end, err := timeutil.ParseBoundary(w.EndTime)
	if err != nil {
		return false
	}
	return t >= start && t < end
}
