package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/internal/bookings/repository"
	"clinicbook/internal/bookings/status"
	"clinicbook/internal/bookings/validator"
	scheduleserrors "clinicbook/internal/schedules/errors"
	"clinicbook/internal/schedules/slots"
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

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const slotLockReleaseTimeout = 2 * time.Second

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Search(ctx context.Context, providerID, date string, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

// WindowStore is the part of the availability repository booking needs.
type WindowStore interface {
	FindByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityWindow, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.SlotLockRepository
	windows   WindowStore
	directory usersrepo.Directory
	validator *validator.BookingValidator
	notifier  notify.Notifier
	metrics   *metrics.BookingMetrics
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.SlotLockRepository,
	windows WindowStore,
	directory usersrepo.Directory,
	validator *validator.BookingValidator,
	notifier notify.Notifier,
	metrics *metrics.BookingMetrics,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		windows:   windows,
		directory: directory,
		validator: validator,
		notifier:  notifier,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create books one slot. Checks run in order: field validation, provider,
// booking permission, subject, availability. The slot is then claimed under
// an advisory lock and inserted in a transaction after re-checking that no
// active booking holds it; the partial unique index settles any remaining race.
func (s *bookingService) Create(ctx context.Context, b *model.Booking) error {
	requester, ok := identity.FromContext(ctx)
	if !ok {
		return apperrors.Unauthorized("Requester identity is required")
	}
	if !requester.IsAdmin() || b.BookerID == "" {
		b.BookerID = requester.ID
	}

	if err := s.validator.Validate(b); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "provider_id", b.ProviderID, "error", err)
		s.metrics.ObserveBooking(metrics.OutcomeRejected)
		return validationError("Booking validation failed", err)
	}

	if err := s.checkParticipants(ctx, requester, b); err != nil {
		s.metrics.ObserveBooking(metrics.OutcomeRejected)
		return err
	}
	if err := s.checkSlotOffered(ctx, b); err != nil {
		s.metrics.ObserveBooking(metrics.OutcomeRejected)
		return err
	}

	lockID := repository.SlotLockID(b.ProviderID, b.Date, b.Time)
	owner := uuid.NewString()
	if err := s.locks.Acquire(ctx, lockID, owner, s.cfg.SlotLockTTL); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			s.metrics.ObserveBooking(metrics.OutcomeConflict)
			return apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return apperrors.Internal("Failed to acquire slot lock", err)
	}
	defer func() {
		// The lock must go even when the request was cancelled mid-create.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), slotLockReleaseTimeout)
		defer cancel()
		if err := s.locks.Release(releaseCtx, lockID, owner); err != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
		}
	}()

	b.ID = ""
	b.Status = model.StatusConfirmed
	b.CancellationReason, b.CancelledBy, b.CancelledAt = "", "", nil

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		_, err := s.repo.FindActiveBySlot(sessCtx, b.ProviderID, b.Date, b.Time)
		switch {
		case err == nil:
			return slotTaken()
		case !errors.Is(err, bookingserrors.ErrNotFound):
			return apperrors.Internal("Failed to check existing bookings", err)
		}

		if err := s.repo.Create(sessCtx, b); err != nil {
			if errors.Is(err, bookingserrors.ErrDuplicate) {
				return slotTaken()
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = slotTaken()
		}
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			s.metrics.ObserveBooking(metrics.OutcomeConflict)
		}
		s.cfg.Log.Error("Failed to create booking",
			"provider_id", b.ProviderID,
			"date", b.Date,
			"time", b.Time,
			"error", err,
		)
		return err
	}
	s.metrics.ObserveBooking(metrics.OutcomeCreated)

	s.cfg.Log.Info("Booking created successfully",
		"id", b.ID,
		"provider_id", b.ProviderID,
		"date", b.Date,
		"time", b.Time,
	)
	notify.Broadcast(ctx, s.notifier, notify.Recipients(b.ProviderID, b.SubjectID), notify.EventBookingCreated, map[string]any{
		"booking_id":  b.ID,
		"provider_id": b.ProviderID,
		"subject_id":  b.SubjectID,
		"date":        b.Date,
		"time":        b.Time,
	})
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	requester, ok := identity.FromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Requester identity is required")
	}

	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(requester, b) {
		return nil, apperrors.Forbidden("You are not allowed to view this booking")
	}
	return b, nil
}

func (s *bookingService) Search(ctx context.Context, providerID, date string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if providerID == "" {
		return nil, 0, apperrors.InvalidInput("provider_id is required")
	}
	if !timeutil.IsDate(date) {
		return nil, 0, apperrors.Validation("Invalid date", map[string]any{
			"date": "date must be a valid date in YYYY-MM-DD format",
		})
	}
	requester, ok := identity.FromContext(ctx)
	if !ok {
		return nil, 0, apperrors.Unauthorized("Requester identity is required")
	}
	if !ownsCalendar(requester, providerID) {
		return nil, 0, apperrors.Forbidden("Only the provider or an admin can list these bookings")
	}

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByProviderAndDate(sharedCtx, providerID, date)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "provider_id", providerID, "date", date, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByProviderAndDate(sharedCtx, providerID, date, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings",
				"provider_id", providerID,
				"date", date,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Booking search completed",
		"provider_id", providerID,
		"date", date,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

// UpdateStatus moves a booking along its lifecycle. The write is conditional
// on the status read here, so a concurrent change surfaces as a CONFLICT.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	requester, ok := identity.FromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Requester identity is required")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return nil, validationError("Invalid status update", err)
	}
	to, err := status.Parse(update.Status)
	if err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := status.Authorize(requester, existing, to); err != nil {
		return nil, err
	}
	from := existing.Status
	if err := status.CanTransition(from, to); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, from, repository.StatusChange{
		To:     to,
		Reason: update.Reason,
		Actor:  requester.ID,
		At:     s.now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrStaleStatus):
			return nil, apperrors.Conflict("Booking status changed concurrently, please retry")
		case errors.Is(err, bookingserrors.ErrDuplicate):
			return nil, slotTaken()
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "from", from, "to", to, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}
	s.metrics.ObserveTransition(string(from), string(to))

	s.cfg.Log.Info("Booking status updated successfully",
		"id", id,
		"from", from,
		"to", to,
		"actor", requester.ID,
	)
	notify.Broadcast(ctx, s.notifier,
		notify.Recipients(updated.ProviderID, updated.SubjectID, updated.BookerID),
		notify.EventBookingStatusChanged,
		map[string]any{
			"booking_id": updated.ID,
			"from":       string(from),
			"to":         string(to),
			"reason":     updated.CancellationReason,
			"date":       updated.Date,
			"time":       updated.Time,
		})
	return updated, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	requester, ok := identity.FromContext(ctx)
	if !ok {
		return apperrors.Unauthorized("Requester identity is required")
	}

	b, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !ownsCalendar(requester, b.ProviderID) {
		return apperrors.Forbidden("Only the provider or an admin can delete this booking")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.lookupError(id, err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id, "actor", requester.ID)
	return nil
}

// --- Helpers ---

func (s *bookingService) find(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return b, nil
}

func (s *bookingService) lookupError(id string, err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error("Failed to access booking", "id", id, "error", err)
	return apperrors.Internal("Failed to access booking", err)
}

// checkParticipants resolves the provider and subject and checks the requester
// may book for the subject. Admins and the owning provider may book for anyone;
// everyone else needs to be the subject or listed in its authorized bookers.
func (s *bookingService) checkParticipants(ctx context.Context, requester identity.Requester, b *model.Booking) error {
	provider, err := s.user(ctx, b.ProviderID)
	if err != nil {
		return err
	}
	if provider == nil || provider.Role != model.RoleProvider {
		return apperrors.NotFoundWithID("Provider", b.ProviderID)
	}

	subject, err := s.user(ctx, b.SubjectID)
	if err != nil {
		return err
	}

	if !ownsCalendar(requester, b.ProviderID) && b.SubjectID != requester.ID {
		if subject == nil || !subject.CanBeBookedBy(requester.ID) {
			return apperrors.Forbidden("You are not allowed to book on behalf of this subject")
		}
	}
	if subject == nil {
		return apperrors.NotFoundWithID("Subject", b.SubjectID)
	}
	return nil
}

// user returns nil without error when the id is unknown.
func (s *bookingService) user(ctx context.Context, id string) (*model.User, error) {
	u, err := s.directory.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}
	return u, nil
}

// checkSlotOffered requires the provider's window for the date to offer the
// requested time and the time not to have passed in the clinic timezone.
func (s *bookingService) checkSlotOffered(ctx context.Context, b *model.Booking) error {
	now := s.now()
	day := timeutil.CompareDate(b.Date, timeutil.Today(now, s.cfg.Location))
	if day < 0 {
		return apperrors.Validation("Booking validation failed", map[string]any{
			"date": "date cannot be in the past",
		})
	}

	w, err := s.windows.FindByProviderAndDate(ctx, b.ProviderID, b.Date)
	if err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability window", b.ProviderID+"/"+b.Date)
		}
		return apperrors.Internal("Failed to load availability window", err)
	}
	if !slots.Contains(w, b.Time) {
		return apperrors.Validation("Booking validation failed", map[string]any{
			"time": "time is not an available slot for this date",
		})
	}
	if day == 0 {
		if m, _ := timeutil.ParseClock(b.Time); m <= timeutil.MinuteOfDay(now, s.cfg.Location) {
			return apperrors.Validation("Booking validation failed", map[string]any{
				"time": "time has already passed",
			})
		}
	}
	return nil
}

func ownsCalendar(r identity.Requester, providerID string) bool {
	return r.IsAdmin() || (r.IsProvider() && r.ID == providerID)
}

func canView(r identity.Requester, b *model.Booking) bool {
	return ownsCalendar(r, b.ProviderID) || r.ID == b.SubjectID || r.ID == b.BookerID
}

func slotTaken() *apperrors.AppError {
	return apperrors.Conflict("This time slot is already booked")
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
