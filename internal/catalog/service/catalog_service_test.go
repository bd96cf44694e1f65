package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"vendora/pkg/client"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/logger"
	"vendora/pkg/model"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) (*HTTPSource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	httpClient := client.NewHttpClient(srv.URL, 2*time.Second)
	return NewHTTPSource(httpClient, log, 2, time.Millisecond), srv
}

func TestGetListing_RetriesServerErrors(t *testing.T) {
	var calls int32
	source, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(model.ServiceListing{ID: "listing-1", VendorID: "vendor-1", Title: "Catering"})
	})

	listing, err := source.GetListing(context.Background(), "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.VendorID != "vendor-1" {
		t.Errorf("expected vendor-1, got %s", listing.VendorID)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 requests, got %d", got)
	}
}

func TestGetListing_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	source, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := source.GetListing(context.Background(), "missing")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestGetListing_ExhaustedRetriesReturnUnavailable(t *testing.T) {
	var calls int32
	source, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := source.GetListing(context.Background(), "listing-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeUnavailable {
		t.Fatalf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

func TestListByCategory_PassesQueryParams(t *testing.T) {
	source, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("category"); got != "catering" {
			t.Errorf("expected category=catering, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("expected limit=20, got %q", got)
		}
		json.NewEncoder(w).Encode([]model.ServiceListing{{ID: "listing-1"}})
	})

	listings, err := source.ListByCategory(context.Background(), "catering", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("expected 1 listing, got %d", len(listings))
	}
}

func TestGetListing_EmptyID(t *testing.T) {
	source, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := source.GetListing(context.Background(), "")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
