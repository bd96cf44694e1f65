package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	catalogerrors "vendora/internal/catalog/errors"
	"vendora/pkg/client"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/logger"
	"vendora/pkg/model"
)

// Source reads service listings from the external catalog/ranking service.
// Listings are owned by that service; nothing here ever writes one.
type Source interface {
	GetListing(ctx context.Context, listingID string) (*model.ServiceListing, error)
	ListByCategory(ctx context.Context, category string, limit int, offset int64) ([]model.ServiceListing, error)
	Recommend(ctx context.Context, eventID string, category string, limit int) ([]model.ServiceListing, error)
}

type HTTPSource struct {
	http       *client.HttpClient
	log        *logger.Logger
	maxRetries int
	retryDelay time.Duration
}

func NewHTTPSource(httpClient *client.HttpClient, log *logger.Logger, maxRetries int, retryDelay time.Duration) *HTTPSource {
	return &HTTPSource{
		http:       httpClient,
		log:        log,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

func (s *HTTPSource) GetListing(ctx context.Context, listingID string) (*model.ServiceListing, error) {
	if listingID == "" {
		return nil, apperrors.InvalidInput("listing id cannot be empty")
	}

	var listing model.ServiceListing
	if err := s.getJSON(ctx, "/listings/"+url.PathEscape(listingID), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *HTTPSource) ListByCategory(ctx context.Context, category string, limit int, offset int64) ([]model.ServiceListing, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.FormatInt(offset, 10))

	var listings []model.ServiceListing
	if err := s.getJSON(ctx, "/listings?"+query.Encode(), &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *HTTPSource) Recommend(ctx context.Context, eventID string, category string, limit int) ([]model.ServiceListing, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("event id cannot be empty")
	}

	query := url.Values{}
	query.Set("event_id", eventID)
	if category != "" {
		query.Set("category", category)
	}
	query.Set("limit", strconv.Itoa(limit))

	var listings []model.ServiceListing
	if err := s.getJSON(ctx, "/recommendations?"+query.Encode(), &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// getJSON retries transient failures (network errors and 5xx responses).
// A 404 maps to NotFound immediately and is never retried.
func (s *HTTPSource) getJSON(ctx context.Context, path string, target any) error {
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperrors.Timeout("catalog request cancelled")
			case <-time.After(s.retryDelay):
			}
		}

		resp, err := s.http.GET(ctx, path)
		if err != nil {
			lastErr = err
			s.log.Warn("Catalog request failed", "path", path, "attempt", attempt+1, "error", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return apperrors.NotFound("listing").WithDetails(map[string]any{"path": path})
		case resp.StatusCode >= http.StatusInternalServerError:
			lastErr = catalogerrors.ErrCatalogUnavailable
			s.log.Warn("Catalog returned server error", "path", path, "status", resp.StatusCode, "attempt", attempt+1)
			continue
		case resp.StatusCode != http.StatusOK:
			return apperrors.New(apperrors.CodeInternal, "unexpected catalog response", http.StatusBadGateway).
				WithDetails(map[string]any{"status": resp.StatusCode})
		}

		if err := resp.DecodeJSON(target); err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "failed to decode catalog response", http.StatusBadGateway)
		}
		return nil
	}

	return apperrors.Wrap(lastErr, apperrors.CodeUnavailable, "catalog service unavailable", http.StatusServiceUnavailable)
}
