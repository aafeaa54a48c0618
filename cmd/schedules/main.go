package main

import (
	bookingsrepo "clinicbook/internal/bookings/repository"
	"clinicbook/internal/schedules/handler"
	"clinicbook/internal/schedules/repository"
	"clinicbook/internal/schedules/service"
	"clinicbook/internal/schedules/validator"
	usersrepo "clinicbook/internal/users/repository"
	"clinicbook/pkg/app"
	"clinicbook/pkg/config"
	"clinicbook/pkg/metrics"
	"clinicbook/pkg/notify"
)

const ServiceName = "schedules"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Schedules service")
	registry := app.NewRegistry()
	notifier, closeNotifier := app.NewNotifier(cfg, ServiceName, registry)
	scheduleService := initServices(cfg, notifier, metrics.NewBookingMetrics(registry))

	serverApp := app.NewApplication(cfg, handler.NewAvailabilityHandler(scheduleService, cfg.Log), registry)
	serverApp.OnShutdown(closeNotifier)
	serverApp.Run()
}

func initServices(cfg *config.Config, notifier notify.Notifier, m *metrics.BookingMetrics) service.ScheduleService {
	availabilityValidator := validator.NewAvailabilityValidator(cfg.Log, cfg.MinSlotDurationMin, cfg.MaxSlotDurationMin)
	availabilityRepo := repository.NewMongoAvailabilityRepository(cfg)
	scheduleService := service.NewScheduleService(
		availabilityRepo,
		bookingsrepo.NewMongoBookingRepository(cfg),
		usersrepo.NewMongoDirectory(cfg),
		availabilityValidator,
		notifier,
		m,
		cfg,
	)

	cfg.Log.Info("Schedules service initialized", "database", cfg.MongoDatabaseName, "time_zone", cfg.ClinicTimeZone)
	return scheduleService
}
