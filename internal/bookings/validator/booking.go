package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"innkeep/internal/bookings/pricing"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	maxStay  int
	logger   *logger.Logger
}

// NewBookingValidator builds a validator enforcing the struct tags on
// model.Booking plus the cross-field rules tags cannot express. maxStay
// caps the booking length in nights; zero disables the cap.
func NewBookingValidator(maxStay int, log *logger.Logger) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		maxStay:  maxStay,
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if booking.CheckInDate.Before(time.Now().UTC()) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckInDate",
				Message: "check_in_date cannot be in the past",
			},
		}
	}

	if !booking.CheckOutDate.After(booking.CheckInDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOutDate",
				Message: "check_out_date must be after check_in_date",
			},
		}
	}

	if v.maxStay > 0 {
		if nights := pricing.Nights(booking.CheckInDate, booking.CheckOutDate); nights > v.maxStay {
			return ValidationErrors{
				ValidationError{
					Field:   "CheckOutDate",
					Message: fmt.Sprintf("stay length (%d nights) exceeds the maximum of %d", nights, v.maxStay),
				},
			}
		}
	}

	return nil
}

func (v *BookingValidator) ValidateInitialState(state model.InitialState) error {
	if !state.Sanctioned() {
		return ValidationErrors{
			ValidationError{
				Field:   "InitialState",
				Message: fmt.Sprintf("initial state %s/%s is not allowed; use %s/%s or %s/%s",
					state.Status, state.PaymentStatus,
					model.StatusPending, model.PaymentUnpaid,
					model.StatusConfirmed, model.PaymentPaid),
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +972501234567)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
