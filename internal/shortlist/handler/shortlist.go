package handler

import (
	"encoding/json"
	"net/http"

	"vendora/internal/shortlist/service"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/httputil"
	"vendora/pkg/logger"
	"vendora/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ShortlistHandler struct {
	service service.ShortlistService
	log     *logger.Logger
}

func NewShortlistHandler(service service.ShortlistService, log *logger.Logger) *ShortlistHandler {
	return &ShortlistHandler{
		service: service,
		log:     log,
	}
}

func (h *ShortlistHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ShortlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Add", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	item, err := h.service.Add(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Add", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, item); err != nil {
		h.log.Error("failed to write created response", "handler", "Add", "operation", "WriteCreated", "error", err)
	}
}

func (h *ShortlistHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Remove(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ShortlistHandler) UpdateNotes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ShortlistNotesUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateNotes", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	item, err := h.service.UpdateNotes(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateNotes", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, item); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateNotes", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ShortlistHandler) ListByEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByEvent", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	items, total, err := h.service.ListByEvent(r.Context(), ps.ByName("eventId"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByEvent", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, items, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByEvent", "operation", "WritePaginated", "error", err)
	}
}

func (h *ShortlistHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/shortlist", h.Add)
	router.DELETE("/api/v1/shortlist/:id", h.Remove)
	router.PATCH("/api/v1/shortlist/:id/notes", h.UpdateNotes)
	router.GET("/api/v1/events/:eventId/shortlist", h.ListByEvent)
}
