package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

type mockScheduleService struct {
	upsertFunc         func(ctx context.Context, w *model.AvailabilityWindow) (*model.UpsertResult, error)
	availableSlotsFunc func(ctx context.Context, providerID, date string) (*model.AvailableSlots, error)
	deleteFunc         func(ctx context.Context, providerID, date string) error
}

func (m *mockScheduleService) Upsert(ctx context.Context, w *model.AvailabilityWindow) (*model.UpsertResult, error) {
	return m.upsertFunc(ctx, w)
}

func (m *mockScheduleService) GetWindow(ctx context.Context, providerID, date string) (*model.AvailabilityWindow, error) {
	return &model.AvailabilityWindow{ProviderID: providerID, Date: date}, nil
}

func (m *mockScheduleService) AvailableSlots(ctx context.Context, providerID, date string) (*model.AvailableSlots, error) {
	return m.availableSlotsFunc(ctx, providerID, date)
}

func (m *mockScheduleService) Delete(ctx context.Context, providerID, date string) error {
	return m.deleteFunc(ctx, providerID, date)
}

func newRouter(svc *mockScheduleService) *httprouter.Router {
	router := httprouter.New()
	NewAvailabilityHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestUpsert_ReturnsCancelledBookings(t *testing.T) {
	svc := &mockScheduleService{
		upsertFunc: func(_ context.Context, w *model.AvailabilityWindow) (*model.UpsertResult, error) {
			if !w.IsRestDay || w.ProviderID != "prov-1" {
				t.Errorf("unexpected window %+v", w)
			}
			return &model.UpsertResult{Window: w, CancelledBookingIDs: []string{"b1", "b2"}}, nil
		},
	}
	body := `{"provider_id":"prov-1","date":"2025-07-03","is_rest_day":true}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/schedules", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data model.UpsertResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.CancelledBookingIDs) != 2 {
		t.Errorf("expected 2 cancelled ids, got %v", resp.Data.CancelledBookingIDs)
	}
}

func TestUpsert_RejectsUnknownFields(t *testing.T) {
	svc := &mockScheduleService{
		upsertFunc: func(context.Context, *model.AvailabilityWindow) (*model.UpsertResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	req := httptest.NewRequest(http.MethodPut, "/api/v1/schedules", strings.NewReader(`{"provider_id":"p","slots":"09:00,09:30"}`))
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAvailableSlots_PassesPathParams(t *testing.T) {
	svc := &mockScheduleService{
		availableSlotsFunc: func(_ context.Context, providerID, date string) (*model.AvailableSlots, error) {
			if providerID != "prov-1" || date != "2025-07-03" {
				t.Errorf("unexpected params %s %s", providerID, date)
			}
			return &model.AvailableSlots{
				ProviderID:     providerID,
				Date:           date,
				ExplicitSlots:  []string{"09:00", "09:30"},
				AvailableSlots: []string{"09:00"},
			}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedules/prov-1/available/2025-07-03", nil)
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, want := range []string{`"available_slots":["09:00"]`, `"explicit_slots":["09:00","09:30"]`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("expected %s in body %s", want, rec.Body.String())
		}
	}
}

func TestDelete_MapsConflict(t *testing.T) {
	svc := &mockScheduleService{
		deleteFunc: func(context.Context, string, string) error {
			return apperrors.Conflict("Availability window has bookings that are not cancelled")
		},
	}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/schedules/prov-1/date/2025-07-03", nil)
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}
