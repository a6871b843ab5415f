package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "innkeep/internal/bookings/errors"
	"innkeep/internal/bookings/events"
	"innkeep/internal/bookings/pricing"
	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

// RoomFinder is the slice of the rooms domain this service needs: price,
// capacity and the availability flag at creation time.
type RoomFinder interface {
	FindRoom(ctx context.Context, roomID string) (*model.Room, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking, state model.InitialState) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByIDForUser(ctx context.Context, id string, userID string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
	GetAll(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	TransitionStatus(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	IsRoomAvailable(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	CompleteDue(ctx context.Context, now time.Time, limit int) (int, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	rooms     RoomFinder
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

// NewBookingService wires the lifecycle engine. publisher may be nil when
// event emission is disabled.
func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	rooms RoomFinder,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create runs the full admission flow: sanitize, validate, resolve the
// room, then hold the room's advisory lock while the overlap check and
// insert commit in one transaction. TotalPrice is snapshotted from the
// room's nightly price at this moment and never recomputed.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking, state model.InitialState) error {
	s.sanitize(booking)

	if err := s.validator.ValidateInitialState(state); err != nil {
		s.cfg.Log.Warn("Rejected booking initial state", "status", state.Status, "payment_status", state.PaymentStatus)
		return apperrors.Validation("Invalid initial booking state", map[string]any{"error": err.Error()})
	}
	booking.Status = state.Status
	booking.PaymentStatus = state.PaymentStatus

	if err := s.validate(booking); err != nil {
		return err
	}

	room, err := s.findRoom(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	if booking.NumberOfGuests > room.Capacity {
		return apperrors.Validation("Guest count exceeds room capacity", map[string]any{
			"number_of_guests": booking.NumberOfGuests,
			"capacity":         room.Capacity,
		})
	}
	if !room.Available {
		return apperrors.Conflict("Room is not open for booking")
	}

	booking.TotalPrice = pricing.Total(room.NightlyPrice, booking.CheckInDate, booking.CheckOutDate)

	if err := s.acquireRoomLock(ctx, booking.RoomID); err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, booking.RoomID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "room_id", booking.RoomID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "room_id", booking.RoomID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"check_in_date", booking.CheckInDate,
		"check_out_date", booking.CheckOutDate,
		"total_price", booking.TotalPrice,
	)

	if s.publisher != nil {
		s.publisher.BookingCreated(ctx, booking)
	}
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

// GetByIDForUser is the ownership-scoped read: a booking belonging to a
// different user comes back as Forbidden, not NotFound, so the caller can
// tell the two apart.
func (s *bookingService) GetByIDForUser(ctx context.Context, id string, userID string) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, apperrors.Forbidden("Booking belongs to another user")
	}

	return booking, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings for user", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings for user", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetAll(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// TransitionStatus applies one step of the state machine. The repository
// write is guarded by the booking's current status, so a concurrent
// transition that lands first turns this one into a Conflict instead of a
// lost update. Cancelling also flips the payment status to REFUNDED in the
// same write.
func (s *bookingService) TransitionStatus(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !model.ValidBookingStatus(target) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", target))
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(booking.Status, target) {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Illegal status transition %s -> %s", booking.Status, target,
		))
	}

	var payment *model.PaymentStatus
	switch target {
	case model.StatusCancelled:
		if !booking.CheckInDate.After(time.Now().UTC()) {
			return nil, apperrors.Conflict("Cannot cancel a booking whose stay has already started")
		}
		refunded := model.PaymentRefunded
		payment = &refunded
	}

	err = s.repo.UpdateStatus(ctx, id, booking.Status, target, payment)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrStaleStatus) {
			return nil, apperrors.Conflict("Booking status changed concurrently, please retry")
		}
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	from := booking.Status
	booking.Status = target
	if payment != nil {
		booking.PaymentStatus = *payment
	}

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", from,
		"to", target,
	)

	if s.publisher != nil {
		s.publisher.BookingStatusChanged(ctx, booking, from)
	}
	return booking, nil
}

// Delete is the admin hard removal. It bypasses the transition table on
// purpose.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted", "id", id, "user_id", booking.UserID)

	if s.publisher != nil {
		s.publisher.BookingDeleted(ctx, id, booking.UserID)
	}
	return nil
}

// IsRoomAvailable reports whether [start, end) is free on the room. A room
// whose available flag is off is unavailable regardless of dates.
func (s *bookingService) IsRoomAvailable(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	if roomID == "" {
		return false, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if !end.After(start) {
		return false, apperrors.InvalidInput("End date must be after start date")
	}

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	if !room.Available {
		return false, nil
	}

	existing, err := s.repo.FindOverlapping(ctx, roomID, start, end)
	if err != nil {
		return false, apperrors.Internal("Failed to check room availability", err)
	}

	return len(existing) == 0, nil
}

// CompleteDue moves confirmed bookings whose stay has ended into COMPLETED.
// Each booking advances through the same guarded write as a user-driven
// transition; one stale booking does not fail the batch.
func (s *bookingService) CompleteDue(ctx context.Context, now time.Time, limit int) (int, error) {
	due, err := s.repo.FindDueCompletion(ctx, now, limit)
	if err != nil {
		return 0, apperrors.Internal("Failed to find bookings due for completion", err)
	}

	completed := 0
	for _, booking := range due {
		err := s.repo.UpdateStatus(ctx, booking.ID, model.StatusConfirmed, model.StatusCompleted, nil)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrStaleStatus) || errors.Is(err, bookingserrors.ErrNotFound) {
				continue
			}
			return completed, apperrors.Internal("Failed to complete booking", err)
		}

		completed++
		if s.publisher != nil {
			from := booking.Status
			booking.Status = model.StatusCompleted
			s.publisher.BookingStatusChanged(ctx, booking, from)
		}
	}

	if completed > 0 {
		s.cfg.Log.Info("Completed due bookings", "count", completed, "scanned", len(due))
	}
	return completed, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.SpecialRequests = sanitizer.SanitizeFreeText(b.SpecialRequests, 1000)
	b.ContactPhone = sanitizer.SanitizePhone(b.ContactPhone)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) findRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.FindRoom(ctx, roomID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to look up room", err)
	}
	if room == nil {
		return nil, apperrors.NotFoundWithID("Room", roomID)
	}
	return room, nil
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.RoomID, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if overlaps(b.CheckInDate, b.CheckOutDate, booking.CheckInDate, booking.CheckOutDate) {
			return apperrors.Conflict(fmt.Sprintf(
				"Room is already booked for %s - %s",
				b.CheckInDate.Format("2006-01-02"),
				b.CheckOutDate.Format("2006-01-02"),
			))
		}
	}
	return nil
}

// overlaps reports whether two half-open [start, end) intervals intersect.
// Sharing an endpoint is not an overlap, so back-to-back stays are legal.
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) error {
	err := s.lockRepo.Acquire(ctx, roomID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return apperrors.Internal("Failed to acquire room lock", err)
	}
	return nil
}
