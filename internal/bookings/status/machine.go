// Package status holds the booking lifecycle rules: which statuses exist,
// which transitions are legal and who may request them.
package status

import (
	"fmt"
	"slices"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/identity"
	"clinicbook/pkg/model"
)

var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusPending, model.StatusCompleted, model.StatusCancelled},
	model.StatusCompleted: nil,
	model.StatusCancelled: nil,
}

var providerTargets = []model.BookingStatus{model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled}

// Parse maps a requested status onto a known BookingStatus.
func Parse(s string) (model.BookingStatus, error) {
	st := model.BookingStatus(s)
	if _, ok := transitions[st]; !ok {
		return "", apperrors.Validation("Unknown booking status", map[string]any{
			"status": fmt.Sprintf("status must be one of: %s, %s, %s, %s",
				model.StatusPending, model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled),
		})
	}
	return st, nil
}

// CanTransition reports a CONFLICT for a move out of a terminal status, a
// move to the current status, or any other move the lifecycle does not allow.
func CanTransition(from, to model.BookingStatus) error {
	if from == to {
		return apperrors.Conflict(fmt.Sprintf("Booking is already %s", from))
	}
	if from.IsTerminal() {
		return apperrors.Conflict(fmt.Sprintf("Booking is %s and can no longer change status", from))
	}
	if !slices.Contains(transitions[from], to) {
		return apperrors.Conflict(fmt.Sprintf("Cannot change booking status from %s to %s", from, to))
	}
	return nil
}

// Authorize checks that r may move b to status to. Admins may request any
// status; the owning provider may confirm, complete or cancel; the subject and
// the booker may only cancel.
func Authorize(r identity.Requester, b *model.Booking, to model.BookingStatus) error {
	switch {
	case r.IsAdmin():
		return nil
	case r.IsProvider() && r.ID == b.ProviderID:
		if slices.Contains(providerTargets, to) {
			return nil
		}
	case r.ID == b.SubjectID || r.ID == b.BookerID:
		if to == model.StatusCancelled {
			return nil
		}
	default:
		return apperrors.Forbidden("You are not allowed to change this booking")
	}
	return apperrors.Forbidden(fmt.Sprintf("You are not allowed to set this booking to %s", to))
}
