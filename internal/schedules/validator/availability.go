package validator

import (
	"fmt"
	"strings"

	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
	"clinicbook/pkg/timeutil"
	"clinicbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type AvailabilityValidator struct {
	validate    *validator.Validate
	logger      *logger.Logger
	minDuration int
	maxDuration int
}

func NewAvailabilityValidator(log *logger.Logger, minDuration, maxDuration int) *AvailabilityValidator {
	log.Info("Availability validator initialized successfully",
		"min_slot_duration_min", minDuration,
		"max_slot_duration_min", maxDuration,
	)
	return &AvailabilityValidator{
		validate:    validation.New(log),
		logger:      log,
		minDuration: minDuration,
		maxDuration: maxDuration,
	}
}

// Validate checks w against today (the clinic-local "YYYY-MM-DD") and, on
// success, normalizes it in place: times become zero-padded "HH:MM" and a window
// defined by explicit slots gets its missing start/end derived from them.
func (v *AvailabilityValidator) Validate(w *model.AvailabilityWindow, today string) error {
	w.Date = strings.TrimSpace(w.Date)
	if err := v.validate.Struct(w); err != nil {
		return validation.Translate(err)
	}

	if timeutil.CompareDate(w.Date, today) < 0 {
		return validation.Field("date", "date cannot be in the past")
	}

	if w.SlotDurationMinutes < v.minDuration || w.SlotDurationMinutes > v.maxDuration {
		return validation.Field("slot_duration_minutes",
			fmt.Sprintf("slot_duration_minutes must be between %d and %d", v.minDuration, v.maxDuration))
	}

	var start, end *int
	if w.StartTime != "" {
		m, _ := timeutil.ParseClock(w.StartTime)
		start = &m
	}
	if w.EndTime != "" {
		m, _ := timeutil.ParseBoundary(w.EndTime)
		end = &m
	}

	switch {
	case w.IsRestDay:
		if w.HasExplicitSlots() {
			return validation.Field("explicit_slots", "a rest day cannot declare explicit_slots")
		}
		if start != nil && end != nil && *start >= *end {
			return validation.Field("end_time", "end_time must be after start_time")
		}

	case w.HasExplicitSlots():
		minutes, err := explicitSlotMinutes(w.ExplicitSlots)
		if err != nil {
			return err
		}
		first, last := minutes[0], minutes[len(minutes)-1]
		lastEnd := last + w.SlotDurationMinutes

		if lastEnd > timeutil.MinutesPerDay {
			return validation.Field("explicit_slots", "the last explicit slot must end by 24:00")
		}
		if start != nil && *start > first {
			return validation.Field("start_time", "start_time must not be after the first explicit slot")
		}
		if end != nil && *end < lastEnd {
			return validation.Field("end_time", "end_time must leave room for the last explicit slot")
		}
		if start == nil {
			start = &first
		}
		if end == nil {
			end = &lastEnd
		}
		for i, m := range minutes {
			w.ExplicitSlots[i] = timeutil.FormatClock(m)
		}

	default:
		if start == nil || end == nil {
			return validation.ValidationErrors{
				{Field: "start_time", Message: "start_time is required unless the day is a rest day or explicit_slots are given"},
				{Field: "end_time", Message: "end_time is required unless the day is a rest day or explicit_slots are given"},
			}
		}
		if *start >= *end {
			return validation.Field("end_time", "end_time must be after start_time")
		}
		if *end-*start < w.SlotDurationMinutes {
			return validation.Field("slot_duration_minutes", "the window must be at least one slot long")
		}
	}

	if start != nil {
		w.StartTime = timeutil.FormatClock(*start)
	}
	if end != nil {
		w.EndTime = timeutil.FormatClock(*end)
	}
	return nil
}

// explicitSlotMinutes parses the slots and checks they are strictly increasing,
// which also rules out duplicates.
func explicitSlotMinutes(slots []string) ([]int, error) {
	minutes := make([]int, len(slots))
	for i, s := range slots {
		m, err := timeutil.ParseClock(s)
		if err != nil {
			return nil, validation.Field("explicit_slots", fmt.Sprintf("explicit_slots[%d] must be in HH:MM 24-hour format", i))
		}
		if i > 0 {
			switch {
			case m == minutes[i-1]:
				return nil, validation.Field("explicit_slots", fmt.Sprintf("explicit_slots contains duplicate time %s", timeutil.FormatClock(m)))
			case m < minutes[i-1]:
				return nil, validation.Field("explicit_slots", "explicit_slots must be in strictly increasing order")
			}
		}
		minutes[i] = m
	}
	return minutes, nil
}
