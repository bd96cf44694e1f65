package handler

import (
	"encoding/json"
	"net/http"

	"vendora/internal/deliverables/service"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/httputil"
	"vendora/pkg/logger"
	"vendora/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DeliverableHandler struct {
	service service.DeliverableService
	log     *logger.Logger
}

func NewDeliverableHandler(service service.DeliverableService, log *logger.Logger) *DeliverableHandler {
	return &DeliverableHandler{
		service: service,
		log:     log,
	}
}

func (h *DeliverableHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.DeliverableCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	deliverable, err := h.service.Create(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, deliverable); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *DeliverableHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.DeliverableStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	deliverable, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, deliverable); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DeliverableHandler) ListByBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	deliverables, err := h.service.ListByBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, deliverables); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DeliverableHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/id/:id/deliverables", h.Create)
	router.GET("/api/v1/bookings/id/:id/deliverables", h.ListByBooking)
	router.PATCH("/api/v1/deliverables/:id/status", h.UpdateStatus)
}
