package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found with id", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad window", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad body"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("missing identity"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not your booking"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("slot already booked"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", errors.New("db down")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("too slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unknown code", &AppError{Code: "TEAPOT"}, "TEAPOT", http.StatusInternalServerError},
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

func TestAppError_Error(t *testing.T) {
	plain := Conflict("slot already booked")
	if got := plain.Error(); got != "CONFLICT: slot already booked" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Internal("failed to cancel booking", errors.New("write conflict"))
	if got := wrapped.Error(); got != "INTERNAL_ERROR: failed to cancel booking (caused by: write conflict)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	original := errors.New("connection reset")
	appErr := Internal("wrapped", original)

	if !errors.Is(appErr, original) {
		t.Errorf("expected errors.Is to find the original error")
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Availability window", "prov-1/2025-07-02")

	if err.Details["resource"] != "Availability window" {
		t.Errorf("unexpected resource detail: %v", err.Details["resource"])
	}
	if err.Details["id"] != "prov-1/2025-07-02" {
		t.Errorf("unexpected id detail: %v", err.Details["id"])
	}
}

func TestAsAppError_FindsWrappedAppError(t *testing.T) {
	inner := Forbidden("not your booking")
	wrapped := fmt.Errorf("transaction failed: %w", inner)

	if !IsAppError(wrapped) {
		t.Fatalf("expected IsAppError to see through wrapping")
	}
	if got := AsAppError(wrapped); got != inner {
		t.Errorf("expected the inner AppError to be returned")
	}
	if !HasCode(wrapped, CodeForbidden) {
		t.Errorf("expected HasCode to match FORBIDDEN")
	}
	if HasCode(wrapped, CodeConflict) {
		t.Errorf("did not expect HasCode to match CONFLICT")
	}
}

func TestAsAppError_WrapsPlainErrorsAsInternal(t *testing.T) {
	plain := errors.New("regular error")

	result := AsAppError(plain)
	if result.Code != CodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", result.Code)
	}
	if result.Err != plain {
		t.Errorf("expected original error to be kept")
	}
}

func TestWithDetails_Merges(t *testing.T) {
	err := NotFoundWithID("Booking", "abc").WithDetails(map[string]any{"id": "def", "hint": "cancelled"})

	if err.Details["resource"] != "Booking" || err.Details["id"] != "def" || err.Details["hint"] != "cancelled" {
		t.Errorf("unexpected details: %v", err.Details)
	}
	if !strings.Contains(err.Error(), "Booking not found") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
