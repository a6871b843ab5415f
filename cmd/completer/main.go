package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innkeep/internal/bookings/events"
	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/service"
	"innkeep/internal/bookings/validator"
	roomsrepository "innkeep/internal/rooms/repository"
	roomsservice "innkeep/internal/rooms/service"
	roomsvalidator "innkeep/internal/rooms/validator"
	"innkeep/pkg/config"
	kafkaconfig "innkeep/pkg/kafka/config"
)

const JobName = "completer"

// The completer is the operational collaborator that moves CONFIRMED
// bookings past their check-out date into COMPLETED. End users never drive
// that transition.
func main() {
	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	bookingService := initServices(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	cfg.Log.Info("Starting completion sweep loop",
		"interval", cfg.CompletionInterval,
		"batch_size", cfg.CompletionBatchSize,
	)

	ticker := time.NewTicker(cfg.CompletionInterval)
	defer ticker.Stop()

	sweep(ctx, cfg, bookingService)
	for {
		select {
		case <-ticker.C:
			sweep(ctx, cfg, bookingService)
		case sig := <-shutdown:
			cfg.Log.Info("Shutdown signal received", "signal", sig)
			return
		}
	}
}

func sweep(ctx context.Context, cfg *config.Config, svc service.BookingService) {
	sweepCtx, cancel := context.WithTimeout(ctx, cfg.CompletionInterval)
	defer cancel()

	completed, err := svc.CompleteDue(sweepCtx, time.Now().UTC(), cfg.CompletionBatchSize)
	if err != nil {
		cfg.Log.Error("Completion sweep failed", "completed_before_failure", completed, "error", err)
		return
	}
	cfg.Log.Debug("Completion sweep finished", "completed", completed)
}

func initServices(cfg *config.Config) service.BookingService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewMongoRoomLockRepository(cfg)

	roomRepo := roomsrepository.NewMongoRoomRepository(cfg)
	roomService := roomsservice.NewRoomService(roomRepo, roomsvalidator.NewRoomValidator(cfg.Log), cfg)

	var publisher events.Publisher
	if cfg.EventsEnabled {
		p, err := events.NewKafkaPublisher(kafkaconfig.Load(), cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
		}
		publisher = p
	}

	return service.NewBookingService(
		bookingRepo,
		lockRepo,
		roomService,
		validator.NewBookingValidator(cfg.MaxBookingNights, cfg.Log),
		publisher,
		cfg,
	)
}
