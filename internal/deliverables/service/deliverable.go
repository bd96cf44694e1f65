package service

import (
	"context"
	"errors"
	"time"

	bookingservice "vendora/internal/bookings/service"
	deliverableerrors "vendora/internal/deliverables/errors"
	"vendora/internal/deliverables/repository"
	"vendora/pkg/cache"
	"vendora/pkg/config"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/events"
	"vendora/pkg/model"
	"vendora/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

// statusOrder imposes the forward-only progression. A transition is legal
// only when the target sits strictly after the current status.
var statusOrder = map[model.DeliverableStatus]int{
	model.DeliverablePending:    0,
	model.DeliverableInProgress: 1,
	model.DeliverableCompleted:  2,
}

type DeliverableService interface {
	Create(ctx context.Context, bookingID string, req *model.DeliverableCreateRequest) (*model.Deliverable, error)
	UpdateStatus(ctx context.Context, id string, update *model.DeliverableStatusUpdate) (*model.Deliverable, error)
	GetByID(ctx context.Context, id string) (*model.Deliverable, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*model.Deliverable, error)
}

type deliverableService struct {
	repo      repository.DeliverableRepository
	bookings  bookingservice.BookingService
	publisher events.Publisher
	timeline  cache.TimelineCache
	validate  *validator.Validate
	cfg       *config.Config
}

func NewDeliverableService(
	repo repository.DeliverableRepository,
	bookings bookingservice.BookingService,
	publisher events.Publisher,
	timeline cache.TimelineCache,
	cfg *config.Config,
) DeliverableService {
	return &deliverableService{
		repo:      repo,
		bookings:  bookings,
		publisher: publisher,
		timeline:  timeline,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// Create attaches a deliverable to a booking. The booking must have
// reached CONFIRMED; earlier statuses and CANCELLED are invalid states
// for deliverable work.
func (s *deliverableService) Create(ctx context.Context, bookingID string, req *model.DeliverableCreateRequest) (*model.Deliverable, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validate.Struct(req); err != nil {
		s.cfg.Log.Warn("Deliverable create validation failed", "booking_id", bookingID, "error", err)
		return nil, apperrors.Validation("Invalid deliverable input", map[string]any{"error": err.Error()})
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !deliverablesAllowed(booking.Status) {
		return nil, apperrors.InvalidState("Deliverables may only be created once the booking is confirmed")
	}

	deliverable := &model.Deliverable{
		BookingID:   bookingID,
		Title:       sanitizer.SanitizeTitle(req.Title),
		Description: sanitizer.SanitizeFreeText(req.Description),
		DueDate:     req.DueDate,
		Status:      model.DeliverablePending,
		Version:     1,
	}

	if err := s.repo.Create(ctx, deliverable); err != nil {
		s.cfg.Log.Error("Failed to create deliverable", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to create deliverable", err)
	}

	s.cfg.Log.Info("Deliverable created",
		"id", deliverable.ID,
		"booking_id", bookingID,
		"due_date", deliverable.DueDate,
	)
	s.timeline.Invalidate(ctx, booking.EventID)

	return deliverable, nil
}

// UpdateStatus moves the deliverable forward. COMPLETED stamps completedAt
// once and nothing may leave COMPLETED afterwards.
func (s *deliverableService) UpdateStatus(ctx context.Context, id string, update *model.DeliverableStatusUpdate) (*model.Deliverable, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Deliverable ID cannot be empty")
	}
	if err := s.validate.Struct(update); err != nil {
		s.cfg.Log.Warn("Deliverable status validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status input", map[string]any{"error": err.Error()})
	}

	deliverable, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.ExpectedVersion != nil && *update.ExpectedVersion != deliverable.Version {
		return nil, apperrors.Conflict("Deliverable was modified concurrently, reload and retry")
	}
	if statusOrder[update.Status] <= statusOrder[deliverable.Status] {
		return nil, apperrors.InvalidTransition(string(deliverable.Status), string(update.Status))
	}

	var completedAt *time.Time
	if update.Status == model.DeliverableCompleted {
		now := time.Now().UTC().Truncate(time.Millisecond)
		completedAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, id, deliverable.Version, update.Status, completedAt); err != nil {
		if errors.Is(err, deliverableerrors.ErrVersionConflict) {
			return nil, apperrors.Conflict("Deliverable was modified concurrently, reload and retry")
		}
		if errors.Is(err, deliverableerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Deliverable", id)
		}
		s.cfg.Log.Error("Failed to update deliverable status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update deliverable status", err)
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Deliverable status updated",
		"id", id,
		"from", deliverable.Status,
		"to", updated.Status,
	)

	if updated.Status == model.DeliverableCompleted && updated.CompletedAt != nil {
		s.publisher.Publish(ctx, events.TypeDeliverableCompleted, updated.BookingID, events.DeliverableCompleted{
			DeliverableID: updated.ID,
			BookingID:     updated.BookingID,
			Title:         updated.Title,
			DueDate:       updated.DueDate,
			CompletedAt:   *updated.CompletedAt,
		})
	}
	if booking, bkErr := s.bookings.GetByID(ctx, updated.BookingID); bkErr == nil {
		s.timeline.Invalidate(ctx, booking.EventID)
	}

	return updated, nil
}

func (s *deliverableService) GetByID(ctx context.Context, id string) (*model.Deliverable, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Deliverable ID cannot be empty")
	}

	deliverable, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, deliverableerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Deliverable", id)
		}
		if errors.Is(err, deliverableerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid deliverable ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve deliverable", err)
	}

	return deliverable, nil
}

func (s *deliverableService) ListByBooking(ctx context.Context, bookingID string) ([]*model.Deliverable, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	// The booking must exist even when it has no deliverables yet.
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	deliverables, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to list deliverables", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve deliverables", err)
	}

	return deliverables, nil
}

func deliverablesAllowed(status model.BookingStatus) bool {
	switch status {
	case model.BookingConfirmed, model.BookingInProgress, model.BookingCompleted:
		return true
	default:
		return false
	}
}
