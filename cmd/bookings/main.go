package main

import (
	"clinicbook/internal/bookings/handler"
	"clinicbook/internal/bookings/repository"
	"clinicbook/internal/bookings/service"
	"clinicbook/internal/bookings/validator"
	schedulesrepo "clinicbook/internal/schedules/repository"
	usersrepo "clinicbook/internal/users/repository"
	"clinicbook/pkg/app"
	"clinicbook/pkg/config"
	"clinicbook/pkg/metrics"
	"clinicbook/pkg/notify"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	registry := app.NewRegistry()
	notifier, closeNotifier := app.NewNotifier(cfg, ServiceName, registry)
	bookingService := initServices(cfg, notifier, metrics.NewBookingMetrics(registry))

	serverApp := app.NewApplication(cfg, handler.NewBookingHandler(bookingService, cfg.Log), registry)
	serverApp.OnShutdown(closeNotifier)
	serverApp.Run()
}

func initServices(cfg *config.Config, notifier notify.Notifier, m *metrics.BookingMetrics) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.PhoneRegions)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		repository.NewMongoSlotLockRepository(cfg),
		schedulesrepo.NewMongoAvailabilityRepository(cfg),
		usersrepo.NewMongoDirectory(cfg),
		bookingValidator,
		notifier,
		m,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName, "slot_lock_ttl", cfg.SlotLockTTL)
	return bookingService
}
