package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"innkeep/internal/bookings/events"
	"innkeep/pkg/kafka"
	kafkaconfig "innkeep/pkg/kafka/config"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

const ServiceName = "notifier"

const consumerGroup = "notifier"

// The notifier tails the booking event stream and dispatches guest-facing
// notifications. Dispatch is currently a structured log line; the consumer
// plumbing (retries, DLQ, offsets) is the part that matters here.
func main() {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   ServiceName,
	})

	cfg := kafkaconfig.Load()

	consumer, err := kafka.NewConsumer(cfg, events.Topic, consumerGroup, events.DLQTopic, handleEvent(log))
	if err != nil {
		log.Fatal("Failed to create consumer", "error", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	log.Info("Notifier consuming booking events", "topic", events.Topic, "group", consumerGroup)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("Consumer stopped unexpectedly", "error", err)
	}
	log.Info("Notifier stopped")
}

func handleEvent(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		switch msg.GetEventType() {
		case events.EventBookingCreated:
			var booking model.Booking
			if err := msg.DecodeValue(&booking); err != nil {
				return kafka.NewPermanentError("invalid booking.created payload", err)
			}
			log.Info("Notify: booking received",
				"booking_id", booking.ID,
				"user_id", booking.UserID,
				"check_in_date", booking.CheckInDate,
				"status", booking.Status,
			)

		case events.EventBookingStatusChanged:
			var payload struct {
				Booking    model.Booking       `json:"booking"`
				FromStatus model.BookingStatus `json:"from_status"`
			}
			if err := msg.DecodeValue(&payload); err != nil {
				return kafka.NewPermanentError("invalid booking.status_changed payload", err)
			}
			log.Info("Notify: booking status changed",
				"booking_id", payload.Booking.ID,
				"user_id", payload.Booking.UserID,
				"from", payload.FromStatus,
				"to", payload.Booking.Status,
			)

		case events.EventBookingDeleted:
			var payload struct {
				ID     string `json:"id"`
				UserID string `json:"user_id"`
			}
			if err := msg.DecodeValue(&payload); err != nil {
				return kafka.NewPermanentError("invalid booking.deleted payload", err)
			}
			log.Info("Notify: booking removed", "booking_id", payload.ID, "user_id", payload.UserID)

		default:
			log.Warn("Skipping unknown event type",
				"event_type", msg.GetEventType(),
				"event_id", msg.GetEventID(),
			)
		}
		return nil
	}
}
