package handler

import (
	"net/http"
	"strconv"

	"vendora/internal/catalog/service"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/httputil"
	"vendora/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type CatalogHandler struct {
	source service.Source
	log    *logger.Logger
}

func NewCatalogHandler(source service.Source, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		source: source,
		log:    log,
	}
}

func (h *CatalogHandler) GetListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listing, err := h.source.GetListing(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetListing", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "GetListing", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) ListListings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListListings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	listings, err := h.source.ListByCategory(r.Context(), r.URL.Query().Get("category"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListListings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, listings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListListings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) Recommend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid limit parameter: "+limitStr)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Recommend", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		limit = parsed
	}

	listings, err := h.source.Recommend(r.Context(), ps.ByName("eventId"), r.URL.Query().Get("category"), limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Recommend", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, listings); err != nil {
		h.log.Error("failed to write success response", "handler", "Recommend", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/listings", h.ListListings)
	router.GET("/api/v1/listings/:id", h.GetListing)
	router.GET("/api/v1/events/:eventId/recommendations", h.Recommend)
}
