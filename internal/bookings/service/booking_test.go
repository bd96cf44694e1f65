package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	bookingserrors "vendora/internal/bookings/errors"
	"vendora/internal/bookings/validator"
	"vendora/pkg/cache"
	"vendora/pkg/config"
	mongotx "vendora/pkg/db/mongo"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/events"
	"vendora/pkg/logger"
	"vendora/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockBookingRepository struct {
	bookings map[string]*model.VendorBooking
	nextID   int
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: map[string]*model.VendorBooking{}}
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.VendorBooking) error {
	if booking.ID == "" {
		m.nextID++
		booking.ID = fmt.Sprintf("booking-%d", m.nextID)
	}
	booking.CreatedAt = time.Now()
	copied := *booking
	m.bookings[booking.ID] = &copied
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.VendorBooking, error) {
	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *mockBookingRepository) FindActiveByEventAndListing(ctx context.Context, eventID, listingID string) (*model.VendorBooking, error) {
	for _, b := range m.bookings {
		if b.EventID == eventID && b.ServiceListingID == listingID && b.Status != model.BookingCancelled {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.VendorBooking, error) {
	var result []*model.VendorBooking
	for _, b := range m.bookings {
		if b.EventID == eventID {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockBookingRepository) FindActiveByEvent(ctx context.Context, eventID string) ([]*model.VendorBooking, error) {
	var result []*model.VendorBooking
	for _, b := range m.bookings {
		if b.EventID == eventID && b.Status != model.BookingCancelled {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockBookingRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	for _, b := range m.bookings {
		if b.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (m *mockBookingRepository) ApplyTransition(ctx context.Context, id string, version int64, change model.StatusChange, finalPrice *float64, confirmedAt *time.Time) error {
	booking, ok := m.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	if booking.Version != version {
		return bookingserrors.ErrVersionConflict
	}
	booking.Status = change.To
	booking.StatusHistory = append(booking.StatusHistory, change)
	booking.UpdatedAt = change.At
	booking.Version++
	if finalPrice != nil {
		booking.FinalPrice = finalPrice
	}
	if confirmedAt != nil {
		booking.ConfirmedAt = confirmedAt
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockQuoteLockRepository struct {
	locks map[string]bool
}

func (m *mockQuoteLockRepository) Create(ctx context.Context, lock *model.QuoteLock) (*model.QuoteLock, error) {
	if m.locks == nil {
		m.locks = map[string]bool{}
	}
	m.locks[lock.ID] = true
	return lock, nil
}

func (m *mockQuoteLockRepository) Delete(ctx context.Context, lockID string) error {
	delete(m.locks, lockID)
	return nil
}

type mockCatalogSource struct {
	getListingFunc func(ctx context.Context, listingID string) (*model.ServiceListing, error)
}

func (m *mockCatalogSource) GetListing(ctx context.Context, listingID string) (*model.ServiceListing, error) {
	if m.getListingFunc != nil {
		return m.getListingFunc(ctx, listingID)
	}
	return &model.ServiceListing{ID: listingID, VendorID: "vendor-1"}, nil
}

func (m *mockCatalogSource) ListByCategory(ctx context.Context, category string, limit int, offset int64) ([]model.ServiceListing, error) {
	return nil, nil
}

func (m *mockCatalogSource) Recommend(ctx context.Context, eventID string, category string, limit int) ([]model.ServiceListing, error) {
	return nil, nil
}

type mockChannelCreator struct {
	created []string
	err     error
}

func (m *mockChannelCreator) CreateChannel(ctx context.Context, bookingID, eventID, vendorID string) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, bookingID)
	return nil
}

func newTestService(repo *mockBookingRepository, channels *mockChannelCreator) BookingService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}

	return NewBookingService(
		repo,
		&mockQuoteLockRepository{},
		&mockCatalogSource{},
		channels,
		events.NoopPublisher{},
		cache.NoopTimelineCache{},
		validator.NewBookingValidator(log),
		cfg,
	)
}

func validQuoteRequest() *model.QuoteRequest {
	return &model.QuoteRequest{
		EventID:          "event-1",
		ServiceListingID: "listing-1",
		ServiceDate:      time.Now().Add(30 * 24 * time.Hour),
		Requirements:     "Full catering for 120 guests",
	}
}

func TestRequestQuote_CreatesPendingBooking(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	booking, err := svc.RequestQuote(context.Background(), validQuoteRequest())
	if err != nil {
		t.Fatalf("RequestQuote failed: %v", err)
	}

	if booking.Status != model.BookingPending {
		t.Errorf("expected status PENDING, got %s", booking.Status)
	}
	if booking.VendorID != "vendor-1" {
		t.Errorf("expected vendor id from listing, got %s", booking.VendorID)
	}
	if len(booking.StatusHistory) != 1 || booking.StatusHistory[0].To != model.BookingPending {
		t.Errorf("expected initial PENDING history entry, got %+v", booking.StatusHistory)
	}
	if booking.Version != 1 {
		t.Errorf("expected version 1, got %d", booking.Version)
	}
}

func TestRequestQuote_DuplicateReturnsExistingBooking(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	first, err := svc.RequestQuote(context.Background(), validQuoteRequest())
	if err != nil {
		t.Fatalf("first RequestQuote failed: %v", err)
	}

	second, err := svc.RequestQuote(context.Background(), validQuoteRequest())
	if err != nil {
		t.Fatalf("second RequestQuote failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected duplicate request to return existing booking %s, got %s", first.ID, second.ID)
	}
	if len(repo.bookings) != 1 {
		t.Errorf("expected a single booking, got %d", len(repo.bookings))
	}
}

func TestRequestQuote_AfterCancellationCreatesNewBooking(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	first, err := svc.RequestQuote(context.Background(), validQuoteRequest())
	if err != nil {
		t.Fatalf("RequestQuote failed: %v", err)
	}

	if _, err := svc.Advance(context.Background(), first.ID, &model.AdvanceRequest{
		Status: model.BookingCancelled,
		Actor:  model.ActorOrganizer,
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	second, err := svc.RequestQuote(context.Background(), validQuoteRequest())
	if err != nil {
		t.Fatalf("RequestQuote after cancellation failed: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a fresh booking after cancellation")
	}
	if len(repo.bookings) != 2 {
		t.Errorf("expected both bookings retained, got %d", len(repo.bookings))
	}
	cancelled, err := svc.GetByID(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("cancelled booking lookup failed: %v", err)
	}
	if cancelled.Status != model.BookingCancelled {
		t.Errorf("expected cancelled booking preserved, got status %s", cancelled.Status)
	}
	if second.Status != model.BookingPending {
		t.Errorf("expected fresh booking to start PENDING, got %s", second.Status)
	}
}

func TestRequestQuote_UnknownListing(t *testing.T) {
	repo := newMockBookingRepository()
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	svc := NewBookingService(
		repo,
		&mockQuoteLockRepository{},
		&mockCatalogSource{getListingFunc: func(ctx context.Context, listingID string) (*model.ServiceListing, error) {
			return nil, apperrors.NotFound("listing")
		}},
		&mockChannelCreator{},
		events.NoopPublisher{},
		cache.NoopTimelineCache{},
		validator.NewBookingValidator(log),
		cfg,
	)

	_, err := svc.RequestQuote(context.Background(), validQuoteRequest())
	if err == nil {
		t.Fatal("expected error for unknown listing")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}
}

// Walks the full happy path: PENDING through COMPLETED with the correct
// actor on each step, checking the side effects along the way.
func TestAdvance_FullLifecycle(t *testing.T) {
	repo := newMockBookingRepository()
	channels := &mockChannelCreator{}
	svc := newTestService(repo, channels)

	booking, err := svc.RequestQuote(context.Background(), validQuoteRequest())
	if err != nil {
		t.Fatalf("RequestQuote failed: %v", err)
	}

	price := 4200.0
	steps := []struct {
		status model.BookingStatus
		actor  model.ActorType
		price  *float64
	}{
		{model.BookingVendorReviewing, model.ActorVendor, nil},
		{model.BookingQuoteSent, model.ActorVendor, &price},
		{model.BookingQuoteAccepted, model.ActorOrganizer, nil},
		{model.BookingConfirmed, model.ActorOrganizer, nil},
		{model.BookingInProgress, model.ActorVendor, nil},
		{model.BookingCompleted, model.ActorVendor, nil},
	}

	for _, step := range steps {
		booking, err = svc.Advance(context.Background(), booking.ID, &model.AdvanceRequest{
			Status:     step.status,
			Actor:      step.actor,
			FinalPrice: step.price,
		})
		if err != nil {
			t.Fatalf("Advance to %s failed: %v", step.status, err)
		}
		if booking.Status != step.status {
			t.Fatalf("expected status %s, got %s", step.status, booking.Status)
		}
	}

	if booking.FinalPrice == nil || *booking.FinalPrice != price {
		t.Errorf("expected final price %.2f to persist, got %v", price, booking.FinalPrice)
	}
	if booking.ConfirmedAt == nil {
		t.Error("expected confirmed_at to be stamped")
	}
	if len(channels.created) != 1 || channels.created[0] != booking.ID {
		t.Errorf("expected one channel for %s, got %v", booking.ID, channels.created)
	}
	// Initial PENDING entry plus six transitions.
	if len(booking.StatusHistory) != 7 {
		t.Errorf("expected 7 history entries, got %d", len(booking.StatusHistory))
	}
}

func TestAdvance_QuoteSentRequiresFinalPrice(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	booking, _ := svc.RequestQuote(context.Background(), validQuoteRequest())
	if _, err := svc.Advance(context.Background(), booking.ID, &model.AdvanceRequest{
		Status: model.BookingVendorReviewing,
		Actor:  model.ActorVendor,
	}); err != nil {
		t.Fatalf("advance to VENDOR_REVIEWING failed: %v", err)
	}

	_, err := svc.Advance(context.Background(), booking.ID, &model.AdvanceRequest{
		Status: model.BookingQuoteSent,
		Actor:  model.ActorVendor,
	})
	if err == nil {
		t.Fatal("expected error for QUOTE_SENT without final price")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", appErr.Code)
	}
}

func TestAdvance_SkippingStatesRejected(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	booking, _ := svc.RequestQuote(context.Background(), validQuoteRequest())

	_, err := svc.Advance(context.Background(), booking.ID, &model.AdvanceRequest{
		Status: model.BookingConfirmed,
		Actor:  model.ActorOrganizer,
	})
	if err == nil {
		t.Fatal("expected error for skipping to CONFIRMED")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidTransition {
		t.Errorf("expected INVALID_TRANSITION, got %s", appErr.Code)
	}
}

// Scenario: a cancelled booking must reject every further transition.
func TestAdvance_CancelledIsTerminal(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	booking, _ := svc.RequestQuote(context.Background(), validQuoteRequest())
	if _, err := svc.Advance(context.Background(), booking.ID, &model.AdvanceRequest{
		Status: model.BookingCancelled,
		Actor:  model.ActorOrganizer,
	}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	for _, target := range []model.BookingStatus{
		model.BookingVendorReviewing,
		model.BookingConfirmed,
		model.BookingCancelled,
	} {
		_, err := svc.Advance(context.Background(), booking.ID, &model.AdvanceRequest{
			Status: target,
			Actor:  model.ActorOrganizer,
		})
		if err == nil {
			t.Errorf("expected CANCELLED booking to reject transition to %s", target)
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidTransition {
			t.Errorf("expected INVALID_TRANSITION for %s, got %s", target, appErr.Code)
		}
	}
}

func TestAdvance_ActorRules(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	booking, _ := svc.RequestQuote(context.Background(), validQuoteRequest())

	// Only the vendor may start reviewing.
	_, err := svc.Advance(context.Background(), booking.ID, &model.AdvanceRequest{
		Status: model.BookingVendorReviewing,
		Actor:  model.ActorOrganizer,
	})
	if err == nil {
		t.Fatal("expected organizer to be rejected for VENDOR_REVIEWING")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", appErr.Code)
	}
}

func TestAdvance_StaleVersionConflict(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	booking, _ := svc.RequestQuote(context.Background(), validQuoteRequest())

	stale := booking.Version - 1
	_, err := svc.Advance(context.Background(), booking.ID, &model.AdvanceRequest{
		Status:          model.BookingVendorReviewing,
		Actor:           model.ActorVendor,
		ExpectedVersion: &stale,
	})
	if err == nil {
		t.Fatal("expected conflict for stale version")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", appErr.Code)
	}
}

func TestAdvance_UnknownBooking(t *testing.T) {
	repo := newMockBookingRepository()
	svc := newTestService(repo, &mockChannelCreator{})

	_, err := svc.Advance(context.Background(), "missing", &model.AdvanceRequest{
		Status: model.BookingVendorReviewing,
		Actor:  model.ActorVendor,
	})
	if err == nil {
		t.Fatal("expected error for unknown booking")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}
}
