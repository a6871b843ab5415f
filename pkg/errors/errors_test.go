package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"testing"
)

func TestConstructorsSetCodeAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("invalid booking", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("room already booked"), CodeConflict, http.StatusConflict},
		{"forbidden", Forbidden("not your booking"), CodeForbidden, http.StatusForbidden},
		{"unauthorized", Unauthorized("missing credentials"), CodeUnauthorized, http.StatusUnauthorized},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("upstream timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("bookings"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithIDCarriesDetails(t *testing.T) {
	err := NotFoundWithID("Room", "abc123")

	if err.Details["resource"] != "Room" {
		t.Errorf("expected resource detail Room, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "abc123" {
		t.Errorf("expected id detail abc123, got %v", err.Details["id"])
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeInternal, "mongo write failed", http.StatusInternalServerError)

	msg := err.Error()
	if !strings.Contains(msg, "mongo write failed") {
		t.Errorf("expected message in error string, got %q", msg)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("expected cause in error string, got %q", msg)
	}

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestToJSONOmitsInternalFields(t *testing.T) {
	err := Internal("something broke", stderrors.New("secret detail"))

	var decoded map[string]any
	if jsonErr := json.Unmarshal(err.ToJSON(), &decoded); jsonErr != nil {
		t.Fatalf("failed to decode error JSON: %v", jsonErr)
	}

	if decoded["code"] != CodeInternal {
		t.Errorf("expected code %s, got %v", CodeInternal, decoded["code"])
	}
	if strings.Contains(string(err.ToJSON()), "secret detail") {
		t.Error("wrapped cause must not leak into the JSON body")
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("passes through app errors", func(t *testing.T) {
		original := Conflict("taken")
		if AsAppError(original) != original {
			t.Error("expected the same AppError back")
		}
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		err := AsAppError(stderrors.New("driver exploded"))
		if err.Code != CodeInternal {
			t.Errorf("expected code %s, got %s", CodeInternal, err.Code)
		}
		if err.HTTPStatus != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", err.HTTPStatus)
		}
	})
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"matching code", NotFound("Booking"), CodeNotFound, true},
		{"different code", NotFound("Booking"), CodeConflict, false},
		{"plain error", stderrors.New("nope"), CodeNotFound, false},
		{"nil error", nil, CodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCode(tt.err, tt.code); got != tt.want {
				t.Errorf("IsCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithDetails(t *testing.T) {
	err := InvalidInput("bad limit").WithDetails(map[string]any{"limit": "-1"})
	if err.Details["limit"] != "-1" {
		t.Errorf("expected details to carry limit, got %v", err.Details)
	}
}
