package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBookingService struct {
	createFunc       func(ctx context.Context, booking *model.Booking, state model.InitialState) error
	getByIDFunc      func(ctx context.Context, id string) (*model.Booking, error)
	getByIDUserFunc  func(ctx context.Context, id, userID string) (*model.Booking, error)
	transitionFunc   func(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error)
	isAvailableFunc  func(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	getAllFunc       func(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	completeDueCalls int
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking, state model.InitialState) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking, state)
	}
	booking.ID = "507f1f77bcf86cd799439099"
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) GetByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	if m.getByIDUserFunc != nil {
		return m.getByIDUserFunc(ctx, id, userID)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, filter, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) TransitionStatus(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error) {
	if m.transitionFunc != nil {
		return m.transitionFunc(ctx, id, target)
	}
	return &model.Booking{ID: id, Status: target}, nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) IsRoomAvailable(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	if m.isAvailableFunc != nil {
		return m.isAvailableFunc(ctx, roomID, start, end)
	}
	return true, nil
}

func (m *mockBookingService) CompleteDue(ctx context.Context, now time.Time, limit int) (int, error) {
	m.completeDueCalls++
	return 0, nil
}

func newTestHandler(svc *mockBookingService) *BookingHandler {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &BookingHandler{service: svc, log: log}
}

func TestCreate_DefaultsToSelfService(t *testing.T) {
	var gotState model.InitialState
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking, state model.InitialState) error {
			gotState = state
			booking.ID = "507f1f77bcf86cd799439099"
			return nil
		},
	}
	handler := newTestHandler(svc)

	body := `{"room_id":"507f1f77bcf86cd799439011","user_id":"507f1f77bcf86cd799439012","check_in_date":"2027-03-01T00:00:00Z","check_out_date":"2027-03-04T00:00:00Z","number_of_guests":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotState != model.SelfServiceState {
		t.Errorf("expected default PENDING/UNPAID state, got %s/%s", gotState.Status, gotState.PaymentStatus)
	}
}

func TestCreate_ExplicitCheckoutState(t *testing.T) {
	var gotState model.InitialState
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking, state model.InitialState) error {
			gotState = state
			return nil
		},
	}
	handler := newTestHandler(svc)

	body := `{"room_id":"507f1f77bcf86cd799439011","user_id":"507f1f77bcf86cd799439012","check_in_date":"2027-03-01T00:00:00Z","check_out_date":"2027-03-04T00:00:00Z","number_of_guests":2,"initial_state":{"status":"CONFIRMED","payment_status":"PAID"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotState != model.CheckoutState {
		t.Errorf("expected CONFIRMED/PAID state, got %s/%s", gotState.Status, gotState.PaymentStatus)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetByID_UserHeaderScopesRead(t *testing.T) {
	var scoped bool
	svc := &mockBookingService{
		getByIDUserFunc: func(ctx context.Context, id, userID string) (*model.Booking, error) {
			scoped = true
			if userID != "507f1f77bcf86cd799439012" {
				t.Errorf("unexpected user id %s", userID)
			}
			return &model.Booking{ID: id, UserID: userID}, nil
		},
	}
	handler := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/507f1f77bcf86cd799439099", nil)
	req.Header.Set("X-User-ID", "507f1f77bcf86cd799439012")
	w := httptest.NewRecorder()

	handler.GetByID(w, req, httprouter.Params{{Key: "id", Value: "507f1f77bcf86cd799439099"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !scoped {
		t.Error("expected the ownership-scoped service call when X-User-ID is present")
	}
}

func TestGetByID_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "not found", serviceErr: apperrors.NotFoundWithID("Booking", "x"), wantStatus: http.StatusNotFound},
		{name: "forbidden", serviceErr: apperrors.Forbidden("Booking belongs to another user"), wantStatus: http.StatusForbidden},
		{name: "invalid id", serviceErr: apperrors.InvalidInput("Invalid booking ID format"), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return nil, tt.serviceErr
				},
			}
			handler := newTestHandler(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/x", nil)
			w := httptest.NewRecorder()
			handler.GetByID(w, req, httprouter.Params{{Key: "id", Value: "x"}})

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestTransitionStatus_ConflictMapsTo409(t *testing.T) {
	svc := &mockBookingService{
		transitionFunc: func(ctx context.Context, id string, target model.BookingStatus) (*model.Booking, error) {
			return nil, apperrors.Conflict("Illegal status transition COMPLETED -> CANCELLED")
		},
	}
	handler := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/id/x/status", strings.NewReader(`{"status":"CANCELLED"}`))
	w := httptest.NewRecorder()
	handler.TransitionStatus(w, req, httprouter.Params{{Key: "id", Value: "x"}})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}
}

func TestCheckAvailability(t *testing.T) {
	t.Run("missing parameters", func(t *testing.T) {
		handler := newTestHandler(&mockBookingService{})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?room_id=abc", nil)
		w := httptest.NewRecorder()

		handler.CheckAvailability(w, req, httprouter.Params{})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("bare dates accepted", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		svc := &mockBookingService{
			isAvailableFunc: func(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
				gotStart, gotEnd = start, end
				return true, nil
			},
		}
		handler := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/availability?room_id=507f1f77bcf86cd799439011&check_in=2027-03-01&check_out=2027-03-04", nil)
		w := httptest.NewRecorder()

		handler.CheckAvailability(w, req, httprouter.Params{})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotEnd.Sub(gotStart) != 72*time.Hour {
			t.Errorf("expected a 3 day window, got %v", gotEnd.Sub(gotStart))
		}

		var wrapper struct {
			Data availabilityResponse `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &wrapper); err != nil {
			t.Fatalf("could not decode response: %v", err)
		}
		if !wrapper.Data.Available {
			t.Error("expected available=true in the response body")
		}
	})
}

func TestGetAll_FilterParsing(t *testing.T) {
	var gotFilter *model.BookingFilter
	svc := &mockBookingService{
		getAllFunc: func(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
			gotFilter = filter
			return []*model.Booking{}, 0, nil
		},
	}
	handler := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings?status=CONFIRMED&room_id=507f1f77bcf86cd799439011&from=2027-03-01&to=2027-04-01", nil)
	w := httptest.NewRecorder()

	handler.GetAll(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if gotFilter == nil {
		t.Fatal("expected the filter to reach the service")
	}
	if gotFilter.Status != model.StatusConfirmed {
		t.Errorf("expected status filter CONFIRMED, got %s", gotFilter.Status)
	}
	if gotFilter.From == nil || gotFilter.To == nil {
		t.Error("expected both interval bounds to be set")
	}
}

func TestGetAll_UnknownStatusFilter(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=ARCHIVED", nil)
	w := httptest.NewRecorder()

	handler.GetAll(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
