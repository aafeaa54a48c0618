package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"clinicbook/internal/schedules/service"
	httputil "clinicbook/pkg/http"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

type AvailabilityHandler struct {
	service service.ScheduleService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.ScheduleService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Upsert(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var window model.AvailabilityWindow
	if err := httputil.DecodeJSON(r, &window); err != nil {
		h.writeError(w, "Upsert", err)
		return
	}

	result, err := h.service.Upsert(r.Context(), &window)
	if err != nil {
		h.writeError(w, "Upsert", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Upsert", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) GetWindow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	window, err := h.service.GetWindow(r.Context(), ps.ByName("provider_id"), ps.ByName("date"))
	if err != nil {
		h.writeError(w, "GetWindow", err)
		return
	}

	if err := httputil.WriteSuccess(w, window); err != nil {
		h.log.Error("failed to write success response", "handler", "GetWindow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) AvailableSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	available, err := h.service.AvailableSlots(r.Context(), ps.ByName("provider_id"), ps.ByName("date"))
	if err != nil {
		h.writeError(w, "AvailableSlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, available); err != nil {
		h.log.Error("failed to write success response", "handler", "AvailableSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("provider_id"), ps.ByName("date")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/schedules", h.Upsert)
	router.GET("/api/v1/schedules/:provider_id/available/:date", h.AvailableSlots)
	router.GET("/api/v1/schedules/:provider_id/date/:date", h.GetWindow)
	router.DELETE("/api/v1/schedules/:provider_id/date/:date", h.Delete)
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
