package service

import (
	"context"
	"errors"
	"slices"
	"time"

	scheduleserrors "clinicbook/internal/schedules/errors"
	"clinicbook/internal/schedules/repository"
	"clinicbook/internal/schedules/slots"
	"clinicbook/internal/schedules/validator"
	userserrors "clinicbook/internal/users/errors"
	usersrepo "clinicbook/internal/users/repository"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/identity"
	"clinicbook/pkg/metrics"
	"clinicbook/pkg/model"
	"clinicbook/pkg/notify"
	"clinicbook/pkg/timeutil"
	"clinicbook/pkg/validation"
)

type ScheduleService interface {
	Upsert(ctx context.Context, w *model.AvailabilityWindow) (*model.UpsertResult, error)
	GetWindow(ctx context.Context, providerID, date string) (*model.AvailabilityWindow, error)
	AvailableSlots(ctx context.Context, providerID, date string) (*model.AvailableSlots, error)
	Delete(ctx context.Context, providerID, date string) error
}

// BookingStore is the part of the bookings repository availability changes need.
type BookingStore interface {
	FindActiveByProviderAndDate(ctx context.Context, providerID, date string) ([]*model.Booking, error)
	CountActiveByProviderAndDate(ctx context.Context, providerID, date string) (int64, error)
	Cancel(ctx context.Context, id, reason, actor string, at time.Time) (*model.Booking, error)
}

type scheduleService struct {
	repo      repository.AvailabilityRepository
	bookings  BookingStore
	directory usersrepo.Directory
	validator *validator.AvailabilityValidator
	notifier  notify.Notifier
	metrics   *metrics.BookingMetrics
	cfg       *config.Config
	now       func() time.Time
}

func NewScheduleService(
	repo repository.AvailabilityRepository,
	bookings BookingStore,
	directory usersrepo.Directory,
	validator *validator.AvailabilityValidator,
	notifier notify.Notifier,
	metrics *metrics.BookingMetrics,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		bookings:  bookings,
		directory: directory,
		validator: validator,
		notifier:  notifier,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Upsert validates and stores the window for (provider_id, date), then cancels
// the bookings the new window no longer accommodates. Cancellation problems are
// returned as warnings; the stored window is never rolled back.
func (s *scheduleService) Upsert(ctx context.Context, w *model.AvailabilityWindow) (*model.UpsertResult, error) {
	requester, err := s.authorize(ctx, w.ProviderID)
	if err != nil {
		return nil, err
	}

	if w.SlotDurationMinutes == 0 {
		w.SlotDurationMinutes = s.cfg.DefaultSlotDurationMin
	}
	w.UpdatedBy = requester.ID

	if err := s.validator.Validate(w, s.today()); err != nil {
		s.cfg.Log.Warn("Availability window validation failed",
			"provider_id", w.ProviderID,
			"date", w.Date,
			"error", err,
		)
		return nil, validationError("Availability window validation failed", err)
	}

	if err := s.requireProvider(ctx, w.ProviderID); err != nil {
		return nil, err
	}

	stored, err := s.repo.Upsert(ctx, w)
	if err != nil {
		if errors.Is(err, scheduleserrors.ErrDuplicate) {
			return nil, apperrors.Conflict("Availability window was written concurrently, please retry")
		}
		s.cfg.Log.Error("Failed to upsert availability window",
			"provider_id", w.ProviderID,
			"date", w.Date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to save availability window", err)
	}
	s.metrics.ObserveAvailabilityMutation(mutationKind(stored))

	cancelled, warnings := s.reconcile(ctx, stored, requester.ID)

	s.cfg.Log.Info("Availability window saved successfully",
		"provider_id", stored.ProviderID,
		"date", stored.Date,
		"is_rest_day", stored.IsRestDay,
		"explicit_slots", len(stored.ExplicitSlots),
		"cancelled_bookings", len(cancelled),
		"warnings", len(warnings),
	)
	return &model.UpsertResult{
		Window:              stored,
		CancelledBookingIDs: cancelled,
		Warnings:            warnings,
	}, nil
}

func (s *scheduleService) GetWindow(ctx context.Context, providerID, date string) (*model.AvailabilityWindow, error) {
	if err := checkKey(providerID, date); err != nil {
		return nil, err
	}

	w, err := s.repo.FindByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, s.lookupError(providerID, date, err)
	}
	return w, nil
}

// AvailableSlots lists the window's slots that are neither booked nor already
// past in the clinic timezone, in ascending order.
func (s *scheduleService) AvailableSlots(ctx context.Context, providerID, date string) (*model.AvailableSlots, error) {
	if err := checkKey(providerID, date); err != nil {
		return nil, err
	}

	w, err := s.repo.FindByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, s.lookupError(providerID, date, err)
	}

	result := &model.AvailableSlots{
		ProviderID:     providerID,
		Date:           date,
		IsRestDay:      w.IsRestDay,
		ExplicitSlots:  append([]string{}, w.ExplicitSlots...),
		AvailableSlots: []string{},
	}

	now := s.now()
	day := timeutil.CompareDate(date, timeutil.Today(now, s.cfg.Location))
	if w.IsRestDay || day < 0 {
		return result, nil
	}

	booked, err := s.bookings.FindActiveByProviderAndDate(ctx, providerID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for available slots",
			"provider_id", providerID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute available slots", err)
	}
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b.Time] = struct{}{}
	}

	nowMinute := timeutil.MinuteOfDay(now, s.cfg.Location)
	for _, slot := range slots.Generate(w) {
		if _, ok := taken[slot]; ok {
			continue
		}
		if day == 0 {
			if m, err := timeutil.ParseClock(slot); err != nil || m <= nowMinute {
				continue
			}
		}
		result.AvailableSlots = append(result.AvailableSlots, slot)
	}
	slices.Sort(result.AvailableSlots)

	return result, nil
}

// Delete removes the window. It is refused while the date still has bookings
// that have not been cancelled.
func (s *scheduleService) Delete(ctx context.Context, providerID, date string) error {
	if err := checkKey(providerID, date); err != nil {
		return err
	}
	if _, err := s.authorize(ctx, providerID); err != nil {
		return err
	}

	active, err := s.bookings.CountActiveByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return apperrors.Internal("Failed to check bookings for availability window", err)
	}
	if active > 0 {
		return apperrors.Conflict("Availability window has bookings that are not cancelled").
			WithDetails(map[string]any{"active_bookings": active})
	}

	if err := s.repo.Delete(ctx, providerID, date); err != nil {
		return s.lookupError(providerID, date, err)
	}
	s.metrics.ObserveAvailabilityMutation("deleted")

	s.cfg.Log.Info("Availability window deleted successfully",
		"provider_id", providerID,
		"date", date,
	)
	return nil
}

// --- Helpers ---

func (s *scheduleService) today() string {
	return timeutil.Today(s.now(), s.cfg.Location)
}

// authorize allows admins and the provider who owns the calendar.
func (s *scheduleService) authorize(ctx context.Context, providerID string) (identity.Requester, error) {
	requester, ok := identity.FromContext(ctx)
	if !ok {
		return identity.Requester{}, apperrors.Unauthorized("Requester identity is required")
	}
	if requester.IsAdmin() || (requester.IsProvider() && requester.ID == providerID) {
		return requester, nil
	}
	return identity.Requester{}, apperrors.Forbidden("Only the provider or an admin can manage this availability")
}

func (s *scheduleService) requireProvider(ctx context.Context, providerID string) error {
	user, err := s.directory.FindByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Provider", providerID)
		}
		return apperrors.Internal("Failed to look up provider", err)
	}
	if user.Role != model.RoleProvider {
		return apperrors.NotFoundWithID("Provider", providerID)
	}
	return nil
}

func (s *scheduleService) lookupError(providerID, date string, err error) error {
	if errors.Is(err, scheduleserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Availability window", providerID+"/"+date)
	}
	s.cfg.Log.Error("Failed to access availability window",
		"provider_id", providerID,
		"date", date,
		"error", err,
	)
	return apperrors.Internal("Failed to access availability window", err)
}

func checkKey(providerID, date string) error {
	if providerID == "" {
		return apperrors.InvalidInput("Provider ID cannot be empty")
	}
	if !timeutil.IsDate(date) {
		return apperrors.Validation("Invalid date", map[string]any{
			"date": "date must be a valid date in YYYY-MM-DD format",
		})
	}
	return nil
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func mutationKind(w *model.AvailabilityWindow) string {
	switch {
	case w.IsRestDay:
		return "rest_day"
	case w.HasExplicitSlots():
		return "explicit_slots"
	}
	return "range"
}
