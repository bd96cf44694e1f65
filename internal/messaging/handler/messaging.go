package handler

import (
	"encoding/json"
	"net/http"

	"vendora/internal/messaging/service"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/httputil"
	"vendora/pkg/logger"
	"vendora/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MessagingHandler struct {
	service service.MessagingService
	log     *logger.Logger
}

func NewMessagingHandler(service service.MessagingService, log *logger.Logger) *MessagingHandler {
	return &MessagingHandler{
		service: service,
		log:     log,
	}
}

func (h *MessagingHandler) PostMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PostMessage", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	message, err := h.service.PostMessage(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PostMessage", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, message); err != nil {
		h.log.Error("failed to write created response", "handler", "PostMessage", "operation", "WriteCreated", "error", err)
	}
}

func (h *MessagingHandler) ListMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMessages", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	messages, total, err := h.service.ListMessages(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMessages", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, messages, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMessages", "operation", "WritePaginated", "error", err)
	}
}

func (h *MessagingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/id/:id/messages", h.PostMessage)
	router.GET("/api/v1/bookings/id/:id/messages", h.ListMessages)
}
