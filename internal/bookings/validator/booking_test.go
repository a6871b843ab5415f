package validator

import (
	"strings"
	"testing"
	"time"

	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func validBooking() *model.Booking {
	checkIn := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	return &model.Booking{
		RoomID:         "507f1f77bcf86cd799439011",
		UserID:         "507f1f77bcf86cd799439012",
		CheckInDate:    checkIn,
		CheckOutDate:   checkIn.AddDate(0, 0, 3),
		NumberOfGuests: 2,
	}
}

func TestValidateDates(t *testing.T) {
	v := NewBookingValidator(90, testLogger())

	now := time.Now().UTC().Truncate(24 * time.Hour)

	tests := []struct {
		name        string
		checkIn     time.Time
		checkOut    time.Time
		wantError   bool
		description string
	}{
		{
			name:        "valid three night stay",
			checkIn:     now.AddDate(0, 0, 7),
			checkOut:    now.AddDate(0, 0, 10),
			wantError:   false,
			description: "future range, checkout after checkin",
		},
		{
			name:        "single night",
			checkIn:     now.AddDate(0, 0, 1),
			checkOut:    now.AddDate(0, 0, 2),
			wantError:   false,
			description: "minimum valid stay",
		},
		{
			name:        "checkout equals checkin",
			checkIn:     now.AddDate(0, 0, 7),
			checkOut:    now.AddDate(0, 0, 7),
			wantError:   true,
			description: "zero-length interval",
		},
		{
			name:        "checkout before checkin",
			checkIn:     now.AddDate(0, 0, 10),
			checkOut:    now.AddDate(0, 0, 7),
			wantError:   true,
			description: "inverted range",
		},
		{
			name:        "checkin in the past",
			checkIn:     now.AddDate(0, 0, -2),
			checkOut:    now.AddDate(0, 0, 2),
			wantError:   true,
			description: "cannot book backwards in time",
		},
		{
			name:        "checkin earlier today",
			checkIn:     time.Now().UTC().Add(-time.Hour),
			checkOut:    now.AddDate(0, 0, 2),
			wantError:   true,
			description: "past is measured against the current instant, not the calendar day",
		},
		{
			name:        "stay exceeds maximum nights",
			checkIn:     now.AddDate(0, 0, 7),
			checkOut:    now.AddDate(0, 0, 7+91),
			wantError:   true,
			description: "91 nights against a 90 night cap",
		},
		{
			name:        "stay exactly at maximum nights",
			checkIn:     now.AddDate(0, 0, 7),
			checkOut:    now.AddDate(0, 0, 7+90),
			wantError:   false,
			description: "cap is inclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			booking.CheckInDate = tt.checkIn
			booking.CheckOutDate = tt.checkOut
			err := v.Validate(booking)
			if (err != nil) != tt.wantError {
				t.Errorf("%s: Validate() error = %v, wantError %v", tt.description, err, tt.wantError)
			}
		})
	}
}

func TestValidatePastCheckInReportedFirst(t *testing.T) {
	v := NewBookingValidator(90, testLogger())

	// Both the past-date and date-order rules are violated; the past-date
	// rule fires first.
	booking := validBooking()
	booking.CheckInDate = time.Now().UTC().AddDate(0, 0, -5)
	booking.CheckOutDate = booking.CheckInDate.AddDate(0, 0, -2)

	err := v.Validate(booking)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "past") {
		t.Errorf("expected the past check-in error to win, got %v", err)
	}
}

func TestValidateGuests(t *testing.T) {
	v := NewBookingValidator(90, testLogger())

	tests := []struct {
		name      string
		guests    int
		wantError bool
	}{
		{name: "one guest", guests: 1, wantError: false},
		{name: "twenty guests", guests: 20, wantError: false},
		{name: "zero guests", guests: 0, wantError: true},
		{name: "negative guests", guests: -1, wantError: true},
		{name: "too many guests", guests: 21, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			booking.NumberOfGuests = tt.guests
			err := v.Validate(booking)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateContactPhone(t *testing.T) {
	v := NewBookingValidator(90, testLogger())

	tests := []struct {
		name      string
		phone     string
		wantError bool
	}{
		{name: "empty phone is allowed", phone: "", wantError: false},
		{name: "valid e164", phone: "+972501234567", wantError: false},
		{name: "missing plus", phone: "972501234567", wantError: true},
		{name: "letters", phone: "+97250abc4567", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			booking.ContactPhone = tt.phone
			err := v.Validate(booking)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateRequiredIDs(t *testing.T) {
	v := NewBookingValidator(90, testLogger())

	t.Run("missing room id", func(t *testing.T) {
		booking := validBooking()
		booking.RoomID = ""
		if err := v.Validate(booking); err == nil {
			t.Error("Validate() expected error for missing room_id")
		}
	})

	t.Run("malformed room id", func(t *testing.T) {
		booking := validBooking()
		booking.RoomID = "not-an-object-id"
		if err := v.Validate(booking); err == nil {
			t.Error("Validate() expected error for malformed room_id")
		}
	})

	t.Run("missing user id", func(t *testing.T) {
		booking := validBooking()
		booking.UserID = ""
		if err := v.Validate(booking); err == nil {
			t.Error("Validate() expected error for missing user_id")
		}
	})
}

func TestValidateInitialState(t *testing.T) {
	v := NewBookingValidator(90, testLogger())

	tests := []struct {
		name      string
		state     model.InitialState
		wantError bool
	}{
		{name: "pending unpaid", state: model.SelfServiceState, wantError: false},
		{name: "confirmed paid", state: model.CheckoutState, wantError: false},
		{
			name:      "confirmed unpaid",
			state:     model.InitialState{Status: model.StatusConfirmed, PaymentStatus: model.PaymentUnpaid},
			wantError: true,
		},
		{
			name:      "pending paid",
			state:     model.InitialState{Status: model.StatusPending, PaymentStatus: model.PaymentPaid},
			wantError: true,
		},
		{
			name:      "cancelled refunded",
			state:     model.InitialState{Status: model.StatusCancelled, PaymentStatus: model.PaymentRefunded},
			wantError: true,
		},
		{
			name:      "completed paid",
			state:     model.InitialState{Status: model.StatusCompleted, PaymentStatus: model.PaymentPaid},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInitialState(tt.state)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateInitialState() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "CheckInDate", Message: "check_in_date cannot be in the past"},
		{Field: "NumberOfGuests", Message: "NumberOfGuests must be at least 1"},
	}

	msg := errs.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}
	if want := "2 error(s)"; !strings.Contains(msg, want) {
		t.Errorf("error message %q missing %q", msg, want)
	}
}
