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

type mockBookingService struct {
	createFunc       func(ctx context.Context, b *model.Booking) error
	searchFunc       func(ctx context.Context, providerID, date string, limit int, offset int64) ([]*model.Booking, int64, error)
	updateStatusFunc func(ctx context.Context, id string, u *model.BookingStatusUpdate) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, b *model.Booking) error {
	return m.createFunc(ctx, b)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) Search(ctx context.Context, providerID, date string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.searchFunc(ctx, providerID, date, limit, offset)
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, id string, u *model.BookingStatusUpdate) (*model.Booking, error) {
	return m.updateStatusFunc(ctx, id, u)
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return nil
}

func serve(svc *mockBookingService, req *http.Request) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewBookingHandler(svc, logger.Discard()).RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_Created(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(_ context.Context, b *model.Booking) error {
			b.ID = "64b7f0c2a1b2c3d4e5f60718"
			b.Status = model.StatusConfirmed
			return nil
		},
	}
	body := `{"provider_id":"prov-1","subject_id":"patient-1","date":"2025-07-03","time":"10:00","subject_details":{"name":"Amani"}}`
	rec := serve(svc, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data["status"] != "confirmed" {
		t.Errorf("unexpected status %v", resp.Data["status"])
	}
	if _, ok := resp.Data["active"]; ok {
		t.Error("storage-only field leaked into the response")
	}
}

func TestCreate_ConflictStatus(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(context.Context, *model.Booking) error {
			return apperrors.Conflict("This time slot is already booked")
		},
	}
	body := `{"provider_id":"prov-1","subject_id":"patient-1","date":"2025-07-03","time":"10:00"}`
	rec := serve(svc, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestUpdateStatus_Route(t *testing.T) {
	svc := &mockBookingService{
		updateStatusFunc: func(_ context.Context, id string, u *model.BookingStatusUpdate) (*model.Booking, error) {
			if id != "abc" || u.Status != "cancelled" {
				t.Errorf("unexpected call %s %+v", id, u)
			}
			return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/id/abc/status", strings.NewReader(`{"status":"cancelled"}`))
	rec := serve(svc, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSearch_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
		wantOffset int64
	}{
		{"defaults", "?provider_id=prov-1&date=2025-07-03", http.StatusOK, 10, 0},
		{"capped", "?provider_id=prov-1&date=2025-07-03&limit=1000&offset=20", http.StatusOK, 100, 20},
		{"invalid limit", "?provider_id=prov-1&date=2025-07-03&limit=abc", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit int
			var gotOffset int64
			svc := &mockBookingService{
				searchFunc: func(_ context.Context, _, _ string, limit int, offset int64) ([]*model.Booking, int64, error) {
					gotLimit, gotOffset = limit, offset
					return []*model.Booking{}, 0, nil
				},
			}
			rec := serve(svc, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/search"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if gotLimit != tt.wantLimit || gotOffset != tt.wantOffset {
				t.Errorf("expected %d/%d, got %d/%d", tt.wantLimit, tt.wantOffset, gotLimit, gotOffset)
			}
		})
	}
}
