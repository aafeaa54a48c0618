package validator

import (
	"strings"

	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
	"clinicbook/pkg/sanitizer"
	"clinicbook/pkg/timeutil"
	"clinicbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate     *validator.Validate
	logger       *logger.Logger
	phoneRegions []string
}

func NewBookingValidator(log *logger.Logger, phoneRegions []string) *BookingValidator {
	log.Info("Booking validator initialized successfully", "phone_regions", phoneRegions)
	return &BookingValidator{
		validate:     validation.New(log),
		logger:       log,
		phoneRegions: phoneRegions,
	}
}

// Validate checks a booking request and normalizes it in place: ids are
// trimmed along with the date, notes and subject details are sanitized and the time becomes
// zero-padded "HH:MM".
func (v *BookingValidator) Validate(b *model.Booking) error {
	b.ProviderID = strings.TrimSpace(b.ProviderID)
	b.SubjectID = strings.TrimSpace(b.SubjectID)
	b.BookerID = strings.TrimSpace(b.BookerID)
	b.Date = strings.TrimSpace(b.Date)
	b.Notes = sanitizer.NormalizeNotes(b.Notes)
	b.SubjectDetails = sanitizer.SubjectDetails(b.SubjectDetails, v.phoneRegions...)

	if err := v.validate.Struct(b); err != nil {
		return validation.Translate(err)
	}

	b.Time, _ = timeutil.NormalizeClock(b.Time)
	return nil
}

func (v *BookingValidator) ValidateStatusUpdate(u *model.BookingStatusUpdate) error {
	u.Status = strings.ToLower(strings.TrimSpace(u.Status))
	u.Reason = strings.TrimSpace(u.Reason)
	return validation.Translate(v.validate.Struct(u))
}
