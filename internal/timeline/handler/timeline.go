package handler

import (
	"net/http"

	"vendora/internal/timeline/service"
	"vendora/pkg/httputil"
	"vendora/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type TimelineHandler struct {
	service service.TimelineService
	log     *logger.Logger
}

func NewTimelineHandler(service service.TimelineService, log *logger.Logger) *TimelineHandler {
	return &TimelineHandler{
		service: service,
		log:     log,
	}
}

func (h *TimelineHandler) GetTimeline(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entries, err := h.service.GetTimeline(r.Context(), ps.ByName("eventId"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetTimeline", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "GetTimeline", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TimelineHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/events/:eventId/timeline", h.GetTimeline)
}
