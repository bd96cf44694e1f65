package service

import (
	"context"
	"errors"
	"sync"

	catalogservice "vendora/internal/catalog/service"
	shortlisterrors "vendora/internal/shortlist/errors"
	"vendora/internal/shortlist/repository"
	"vendora/pkg/config"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/model"
	"vendora/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type ShortlistService interface {
	Add(ctx context.Context, req *model.ShortlistAddRequest) (*model.ShortlistItem, error)
	Remove(ctx context.Context, id string) error
	UpdateNotes(ctx context.Context, id string, update *model.ShortlistNotesUpdate) (*model.ShortlistItem, error)
	ListByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.ShortlistItem, int64, error)
}

type shortlistService struct {
	repo     repository.ShortlistRepository
	catalog  catalogservice.Source
	validate *validator.Validate
	cfg      *config.Config
}

func NewShortlistService(repo repository.ShortlistRepository, catalog catalogservice.Source, cfg *config.Config) ShortlistService {
	return &shortlistService{
		repo:     repo,
		catalog:  catalog,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Add saves a listing against an event. Adding a listing that is already
// shortlisted returns the existing item without touching its notes.
func (s *shortlistService) Add(ctx context.Context, req *model.ShortlistAddRequest) (*model.ShortlistItem, error) {
	if err := s.validate.Struct(req); err != nil {
		s.cfg.Log.Warn("Shortlist add validation failed", "event_id", req.EventID, "error", err)
		return nil, apperrors.Validation("Invalid shortlist input", map[string]any{"error": err.Error()})
	}

	// The listing must exist in the catalog before it can be saved.
	if _, err := s.catalog.GetListing(ctx, req.ServiceListingID); err != nil {
		return nil, err
	}

	item := &model.ShortlistItem{
		EventID:          req.EventID,
		ServiceListingID: req.ServiceListingID,
		Notes:            sanitizer.SanitizeFreeText(req.Notes),
	}

	saved, err := s.repo.Upsert(ctx, item)
	if err != nil {
		s.cfg.Log.Error("Failed to add shortlist item", "event_id", req.EventID, "listing_id", req.ServiceListingID, "error", err)
		return nil, apperrors.Internal("Failed to add shortlist item", err)
	}

	s.cfg.Log.Info("Shortlist item saved",
		"id", saved.ID,
		"event_id", saved.EventID,
		"listing_id", saved.ServiceListingID,
	)
	return saved, nil
}

func (s *shortlistService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Shortlist item ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shortlisterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Shortlist item", id)
		}
		if errors.Is(err, shortlisterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid shortlist item ID format")
		}
		return apperrors.Internal("Failed to remove shortlist item", err)
	}

	s.cfg.Log.Info("Shortlist item removed", "id", id)
	return nil
}

func (s *shortlistService) UpdateNotes(ctx context.Context, id string, update *model.ShortlistNotesUpdate) (*model.ShortlistItem, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Shortlist item ID cannot be empty")
	}
	if err := s.validate.Struct(update); err != nil {
		s.cfg.Log.Warn("Shortlist notes validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid notes input", map[string]any{"error": err.Error()})
	}

	notes := sanitizer.SanitizeFreeText(update.Notes)
	if err := s.repo.UpdateNotes(ctx, id, notes); err != nil {
		if errors.Is(err, shortlisterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Shortlist item", id)
		}
		if errors.Is(err, shortlisterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid shortlist item ID format")
		}
		return nil, apperrors.Internal("Failed to update shortlist notes", err)
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to reload shortlist item", err)
	}

	s.cfg.Log.Info("Shortlist notes updated", "id", id)
	return item, nil
}

func (s *shortlistService) ListByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.ShortlistItem, int64, error) {
	if eventID == "" {
		return nil, 0, apperrors.InvalidInput("Event ID cannot be empty")
	}

	var count int64
	var items []*model.ShortlistItem
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByEvent(ctx, eventID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count shortlist items", "event_id", eventID, "error", errCount)
			errCount = apperrors.Internal("Failed to count shortlist items", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		items, errFind = s.repo.FindByEvent(ctx, eventID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list shortlist items", "event_id", eventID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve shortlist items", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return items, count, nil
}
