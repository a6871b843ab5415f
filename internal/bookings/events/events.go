package events

import (
	"context"

	"innkeep/pkg/kafka"
	kafkaconfig "innkeep/pkg/kafka/config"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

const (
	Topic    = "booking-events"
	DLQTopic = "dlq-bookings"

	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingDeleted       = "booking.deleted"
)

// Publisher emits booking lifecycle events. Implementations must be safe
// for concurrent use. Publish failures are logged, not surfaced: the write
// to the store already happened and must not be rolled back over a broker
// hiccup.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingStatusChanged(ctx context.Context, booking *model.Booking, from model.BookingStatus)
	BookingDeleted(ctx context.Context, id, userID string)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	logger   *logger.Logger
}

func NewKafkaPublisher(cfg *kafkaconfig.Config, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, Topic, DLQTopic)
	if err != nil {
		return nil, err
	}

	log.Info("Booking event publisher initialized", "topic", Topic)

	return &kafkaPublisher{
		producer: producer,
		logger:   log,
	}, nil
}

type statusChangedPayload struct {
	Booking    *model.Booking      `json:"booking"`
	FromStatus model.BookingStatus `json:"from_status"`
}

type deletedPayload struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	msg := kafka.NewMessage().
		WithKey(booking.RoomID).
		WithValue(booking).
		WithEventType(EventBookingCreated).
		WithSource("bookings").
		Build()

	p.publish(ctx, msg)
}

func (p *kafkaPublisher) BookingStatusChanged(ctx context.Context, booking *model.Booking, from model.BookingStatus) {
	msg := kafka.NewMessage().
		WithKey(booking.RoomID).
		WithValue(statusChangedPayload{Booking: booking, FromStatus: from}).
		WithEventType(EventBookingStatusChanged).
		WithSource("bookings").
		Build()

	p.publish(ctx, msg)
}

func (p *kafkaPublisher) BookingDeleted(ctx context.Context, id, userID string) {
	msg := kafka.NewMessage().
		WithKey(id).
		WithValue(deletedPayload{ID: id, UserID: userID}).
		WithEventType(EventBookingDeleted).
		WithSource("bookings").
		Build()

	p.publish(ctx, msg)
}

func (p *kafkaPublisher) publish(ctx context.Context, msg kafka.Message) {
	if err := p.producer.Publish(ctx, msg); err != nil {
		p.logger.Error("Failed to publish booking event",
			"event_type", msg.GetEventType(),
			"event_id", msg.GetEventID(),
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
