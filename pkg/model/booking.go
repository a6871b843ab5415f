package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Booking occupies a room for the half-open interval
// [check_in_date, check_out_date). TotalPrice is a creation-time snapshot
// and is never recomputed, even if the room's nightly price changes later.
type Booking struct {
	ID              string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID          string        `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	UserID          string        `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	CheckInDate     time.Time     `json:"check_in_date" bson:"check_in_date" validate:"required"`
	CheckOutDate    time.Time     `json:"check_out_date" bson:"check_out_date" validate:"required,gtfield=CheckInDate"`
	NumberOfGuests  int           `json:"number_of_guests" bson:"number_of_guests" validate:"required,min=1,max=20"`
	TotalPrice      float64       `json:"total_price" bson:"total_price" validate:"omitempty,gte=0"`
	Status          BookingStatus `json:"status" bson:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	PaymentStatus   PaymentStatus `json:"payment_status" bson:"payment_status" validate:"omitempty,oneof=UNPAID PAID REFUNDED"`
	SpecialRequests string        `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	ContactPhone    string        `json:"contact_phone,omitempty" bson:"contact_phone,omitempty" validate:"omitempty,e164"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// InitialState is the explicit entry point a caller must choose when creating
// a booking. Only two combinations are sanctioned: the self-service flow
// (PENDING/UNPAID) and the immediate-payment checkout flow (CONFIRMED/PAID).
type InitialState struct {
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

var (
	SelfServiceState = InitialState{Status: StatusPending, PaymentStatus: PaymentUnpaid}
	CheckoutState    = InitialState{Status: StatusConfirmed, PaymentStatus: PaymentPaid}
)

func (s InitialState) Sanctioned() bool {
	return s == SelfServiceState || s == CheckoutState
}

// BookingFilter narrows admin listings. Nil/empty fields are ignored.
// From/To select bookings whose stay interval overlaps [From, To).
type BookingFilter struct {
	UserID        string
	RoomID        string
	Status        BookingStatus
	PaymentStatus PaymentStatus
	From          *time.Time
	To            *time.Time
}
