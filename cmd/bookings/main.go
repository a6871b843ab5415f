package main

import (
	"innkeep/internal/bookings/events"
	"innkeep/internal/bookings/handler"
	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/service"
	"innkeep/internal/bookings/validator"
	roomsrepository "innkeep/internal/rooms/repository"
	roomsservice "innkeep/internal/rooms/service"
	roomsvalidator "innkeep/internal/rooms/validator"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
	kafkaconfig "innkeep/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.MaxBookingNights, cfg.Log)
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

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		roomService,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
