package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "vendora/internal/bookings/errors"
	"vendora/internal/bookings/repository"
	"vendora/internal/bookings/validator"
	catalogservice "vendora/internal/catalog/service"
	"vendora/pkg/cache"
	"vendora/pkg/config"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/events"
	"vendora/pkg/model"
	"vendora/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// ChannelCreator opens the messaging channel for a booking. Implemented by
// the messaging service; declared here so bookings does not import it.
type ChannelCreator interface {
	CreateChannel(ctx context.Context, bookingID, eventID, vendorID string) error
}

type BookingService interface {
	RequestQuote(ctx context.Context, req *model.QuoteRequest) (*model.VendorBooking, error)
	Advance(ctx context.Context, id string, req *model.AdvanceRequest) (*model.VendorBooking, error)
	GetByID(ctx context.Context, id string) (*model.VendorBooking, error)
	ListByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.VendorBooking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.QuoteLockRepository
	catalog   catalogservice.Source
	channels  ChannelCreator
	publisher events.Publisher
	timeline  cache.TimelineCache
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.QuoteLockRepository,
	catalog catalogservice.Source,
	channels ChannelCreator,
	publisher events.Publisher,
	timeline cache.TimelineCache,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		channels:  channels,
		publisher: publisher,
		timeline:  timeline,
		validator: validator,
		cfg:       cfg,
	}
}

// RequestQuote creates a PENDING booking for the (event, listing) pair.
// Repeating the request while a non-cancelled booking exists returns that
// booking unchanged; a fresh request is only possible after cancellation.
func (s *bookingService) RequestQuote(ctx context.Context, req *model.QuoteRequest) (*model.VendorBooking, error) {
	if err := s.validator.ValidateQuoteRequest(req); err != nil {
		s.cfg.Log.Warn("Quote request validation failed", "event_id", req.EventID, "error", err)
		return nil, apperrors.Validation("Invalid quote request", map[string]any{"error": err.Error()})
	}
	s.sanitizeQuoteRequest(req)

	listing, err := s.catalog.GetListing(ctx, req.ServiceListingID)
	if err != nil {
		return nil, err
	}

	if existing, findErr := s.repo.FindActiveByEventAndListing(ctx, req.EventID, req.ServiceListingID); findErr == nil {
		s.cfg.Log.Info("Quote request absorbed by existing booking",
			"booking_id", existing.ID,
			"event_id", req.EventID,
			"listing_id", req.ServiceListingID,
		)
		return existing, nil
	} else if !errors.Is(findErr, bookingserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check existing booking", findErr)
	}

	// Advisory lock to prevent race conditions between concurrent requests
	lockID := fmt.Sprintf("quote:%s:%s", req.EventID, req.ServiceListingID)
	if _, err := s.lockRepo.Create(ctx, &model.QuoteLock{ID: lockID}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if existing, findErr := s.repo.FindActiveByEventAndListing(ctx, req.EventID, req.ServiceListingID); findErr == nil {
				return existing, nil
			}
			return nil, apperrors.Conflict("A quote request for this listing is already in progress")
		}
		return nil, apperrors.Internal("Failed to acquire quote lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Delete(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release quote lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking := &model.VendorBooking{
		EventID:          req.EventID,
		ServiceListingID: req.ServiceListingID,
		VendorID:         listing.VendorID,
		Status:           model.BookingPending,
		ServiceDate:      req.ServiceDate,
		Requirements:     req.Requirements,
		BudgetRange:      req.BudgetRange,
		AdditionalNotes:  req.AdditionalNotes,
		StatusHistory: []model.StatusChange{
			{To: model.BookingPending, Actor: model.ActorOrganizer, At: now},
		},
		Version: 1,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "event_id", req.EventID, "listing_id", req.ServiceListingID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Quote requested",
		"booking_id", booking.ID,
		"event_id", booking.EventID,
		"listing_id", booking.ServiceListingID,
		"vendor_id", booking.VendorID,
	)

	s.publisher.Publish(ctx, events.TypeQuoteRequested, booking.ID, events.QuoteRequested{
		BookingID:        booking.ID,
		EventID:          booking.EventID,
		ServiceListingID: booking.ServiceListingID,
		VendorID:         booking.VendorID,
		ServiceDate:      booking.ServiceDate,
		RequestedAt:      now,
	})
	s.timeline.Invalidate(ctx, booking.EventID)

	return booking, nil
}

// Advance applies one status transition. The booking moves through its
// single forward path, or to CANCELLED from any non-terminal status. The
// write is guarded by the version read here, so two racing transitions
// cannot both land.
func (s *bookingService) Advance(ctx context.Context, id string, req *model.AdvanceRequest) (*model.VendorBooking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateAdvance(req); err != nil {
		s.cfg.Log.Warn("Advance validation failed", "booking_id", id, "error", err)
		return nil, apperrors.Validation("Invalid transition request", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ExpectedVersion != nil && *req.ExpectedVersion != booking.Version {
		return nil, apperrors.Conflict("Booking was modified concurrently, reload and retry")
	}
	if !s.validator.CheckTransition(booking.Status, req.Status) {
		return nil, apperrors.InvalidTransition(string(booking.Status), string(req.Status))
	}
	if !s.validator.CheckActor(req.Status, req.Actor) {
		return nil, apperrors.Validation("Actor may not drive this transition", map[string]any{
			"actor":  req.Actor,
			"status": req.Status,
		})
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	change := model.StatusChange{
		From:  booking.Status,
		To:    req.Status,
		Actor: req.Actor,
		At:    now,
	}

	var confirmedAt *time.Time
	if req.Status == model.BookingConfirmed {
		confirmedAt = &now
	}

	if req.Status == model.BookingConfirmed {
		// Confirmation and channel creation land atomically.
		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if applyErr := s.repo.ApplyTransition(sessCtx, id, booking.Version, change, req.FinalPrice, confirmedAt); applyErr != nil {
				return s.mapTransitionError(applyErr, id)
			}
			if chanErr := s.channels.CreateChannel(sessCtx, id, booking.EventID, booking.VendorID); chanErr != nil {
				return chanErr
			}
			return nil
		})
	} else {
		if applyErr := s.repo.ApplyTransition(ctx, id, booking.Version, change, req.FinalPrice, nil); applyErr != nil {
			err = s.mapTransitionError(applyErr, id)
		}
	}
	if err != nil {
		s.cfg.Log.Error("Failed to advance booking", "booking_id", id, "from", change.From, "to", change.To, "error", err)
		return nil, err
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking advanced",
		"booking_id", id,
		"from", change.From,
		"to", change.To,
		"actor", change.Actor,
	)

	s.publisher.Publish(ctx, events.TypeBookingStatusChanged, id, events.BookingStatusChanged{
		BookingID:  id,
		EventID:    updated.EventID,
		VendorID:   updated.VendorID,
		From:       change.From,
		To:         change.To,
		Actor:      change.Actor,
		FinalPrice: req.FinalPrice,
		ChangedAt:  now,
	})
	s.timeline.Invalidate(ctx, updated.EventID)

	return updated, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.VendorBooking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.VendorBooking, int64, error) {
	if eventID == "" {
		return nil, 0, apperrors.InvalidInput("Event ID cannot be empty")
	}

	var count int64
	var bookings []*model.VendorBooking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByEvent(ctx, eventID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "event_id", eventID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByEvent(ctx, eventID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "event_id", eventID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) sanitizeQuoteRequest(req *model.QuoteRequest) {
	req.Requirements = sanitizer.SanitizeFreeText(req.Requirements)
	req.BudgetRange = sanitizer.SanitizeTitle(req.BudgetRange)
	req.AdditionalNotes = sanitizer.SanitizeFreeText(req.AdditionalNotes)
}

func (s *bookingService) mapTransitionError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrVersionConflict) {
		return apperrors.Conflict("Booking was modified concurrently, reload and retry")
	}
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to apply transition", err)
}
