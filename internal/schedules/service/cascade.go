package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/internal/schedules/slots"
	"clinicbook/pkg/model"
	"clinicbook/pkg/notify"
)

const (
	ReasonProviderUnavailable = "provider unavailable"
	ReasonSlotRemoved         = "schedule slot removed"
	ReasonHoursChanged        = "schedule hours changed"
)

// Displacement returns why b no longer fits w, or "" when it still does.
// A change of slot duration alone never displaces a booking that is still
// inside the hours, even if it no longer lines up with a generated slot.
func Displacement(w *model.AvailabilityWindow, b *model.Booking) string {
	switch {
	case w.IsRestDay:
		return ReasonProviderUnavailable
	case w.HasExplicitSlots():
		if !slices.Contains(w.ExplicitSlots, b.Time) {
			return ReasonSlotRemoved
		}
	case w.StartTime != "" && w.EndTime != "":
		if !slots.WithinHours(w, b.Time) {
			return ReasonHoursChanged
		}
	}
	return ""
}

// reconcile cancels every active booking on the window's date that the window
// displaces. Each cancellation is its own conditional write; failures are
// logged and returned as warnings.
func (s *scheduleService) reconcile(ctx context.Context, w *model.AvailabilityWindow, actor string) ([]string, []string) {
	cancelled := []string{}
	var warnings []string

	bookings, err := s.bookings.FindActiveByProviderAndDate(ctx, w.ProviderID, w.Date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for reconciliation",
			"provider_id", w.ProviderID,
			"date", w.Date,
			"error", err,
		)
		s.metrics.ObserveCascadeFailure()
		return cancelled, []string{"existing bookings could not be checked against the new availability"}
	}

	for _, b := range bookings {
		reason := Displacement(w, b)
		if reason == "" || b.Status.IsTerminal() {
			continue
		}

		updated, err := s.bookings.Cancel(ctx, b.ID, reason, actor, s.now())
		if err != nil {
			if errors.Is(err, bookingserrors.ErrNotActive) {
				continue
			}
			s.cfg.Log.Error("Failed to cancel displaced booking",
				"booking_id", b.ID,
				"provider_id", w.ProviderID,
				"date", w.Date,
				"time", b.Time,
				"reason", reason,
				"error", err,
			)
			s.metrics.ObserveCascadeFailure()
			warnings = append(warnings, fmt.Sprintf("booking %s at %s could not be cancelled", b.ID, b.Time))
			continue
		}

		cancelled = append(cancelled, b.ID)
		s.metrics.ObserveCascadeCancellation(reason)
		s.cfg.Log.Info("Booking cancelled by availability change",
			"booking_id", b.ID,
			"provider_id", w.ProviderID,
			"date", w.Date,
			"time", b.Time,
			"reason", reason,
		)
		notify.Broadcast(ctx, s.notifier, notify.Recipients(updated.SubjectID, updated.BookerID), notify.EventBookingCancelled, map[string]any{
			"booking_id":  updated.ID,
			"provider_id": updated.ProviderID,
			"date":        updated.Date,
			"time":        updated.Time,
			"reason":      reason,
		})
	}
	return cancelled, warnings
}
