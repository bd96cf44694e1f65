package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	bookingservice "vendora/internal/bookings/service"
	deliverableerrors "vendora/internal/deliverables/errors"
	"vendora/pkg/cache"
	"vendora/pkg/config"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/events"
	"vendora/pkg/logger"
	"vendora/pkg/model"
)

type mockDeliverableRepository struct {
	deliverables map[string]*model.Deliverable
	nextID       int
}

func newMockDeliverableRepository() *mockDeliverableRepository {
	return &mockDeliverableRepository{deliverables: map[string]*model.Deliverable{}, nextID: 1}
}

func (m *mockDeliverableRepository) Create(ctx context.Context, d *model.Deliverable) error {
	d.ID = fmt.Sprintf("deliverable-%d", m.nextID)
	m.nextID++
	d.CreatedAt = time.Now()
	copied := *d
	m.deliverables[d.ID] = &copied
	return nil
}

func (m *mockDeliverableRepository) FindByID(ctx context.Context, id string) (*model.Deliverable, error) {
	d, ok := m.deliverables[id]
	if !ok {
		return nil, deliverableerrors.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (m *mockDeliverableRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.Deliverable, error) {
	var result []*model.Deliverable
	for _, d := range m.deliverables {
		if d.BookingID == bookingID {
			copied := *d
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockDeliverableRepository) FindByBookings(ctx context.Context, bookingIDs []string) ([]*model.Deliverable, error) {
	var result []*model.Deliverable
	for _, id := range bookingIDs {
		byBooking, _ := m.FindByBooking(ctx, id)
		result = append(result, byBooking...)
	}
	return result, nil
}

func (m *mockDeliverableRepository) UpdateStatus(ctx context.Context, id string, version int64, status model.DeliverableStatus, completedAt *time.Time) error {
	d, ok := m.deliverables[id]
	if !ok {
		return deliverableerrors.ErrNotFound
	}
	if d.Version != version {
		return deliverableerrors.ErrVersionConflict
	}
	d.Status = status
	d.Version++
	if completedAt != nil {
		d.CompletedAt = completedAt
	}
	return nil
}

type mockBookingGetter struct {
	status model.BookingStatus
}

func (m *mockBookingGetter) GetByID(ctx context.Context, id string) (*model.VendorBooking, error) {
	if id == "missing" {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	return &model.VendorBooking{ID: id, EventID: "event-1", Status: m.status}, nil
}

func (m *mockBookingGetter) RequestQuote(ctx context.Context, req *model.QuoteRequest) (*model.VendorBooking, error) {
	return nil, nil
}

func (m *mockBookingGetter) Advance(ctx context.Context, id string, req *model.AdvanceRequest) (*model.VendorBooking, error) {
	return nil, nil
}

func (m *mockBookingGetter) ListByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.VendorBooking, int64, error) {
	return nil, 0, nil
}

var _ bookingservice.BookingService = (*mockBookingGetter)(nil)

func newTestDeliverableService(repo *mockDeliverableRepository, bookingStatus model.BookingStatus) DeliverableService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	return NewDeliverableService(repo, &mockBookingGetter{status: bookingStatus}, events.NoopPublisher{}, cache.NoopTimelineCache{}, cfg)
}

func validCreateRequest(dueDate time.Time) *model.DeliverableCreateRequest {
	return &model.DeliverableCreateRequest{
		Title:   "Deliver final photo album",
		DueDate: dueDate,
	}
}

func TestCreate_RequiresConfirmedBooking(t *testing.T) {
	for _, status := range []model.BookingStatus{
		model.BookingPending,
		model.BookingVendorReviewing,
		model.BookingQuoteSent,
		model.BookingQuoteAccepted,
		model.BookingCancelled,
	} {
		svc := newTestDeliverableService(newMockDeliverableRepository(), status)

		_, err := svc.Create(context.Background(), "booking-1", validCreateRequest(time.Now().Add(24*time.Hour)))
		if err == nil {
			t.Errorf("expected InvalidState for booking status %s", status)
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidState {
			t.Errorf("expected INVALID_STATE for %s, got %s", status, appErr.Code)
		}
	}
}

func TestCreate_OnConfirmedBooking(t *testing.T) {
	repo := newMockDeliverableRepository()
	svc := newTestDeliverableService(repo, model.BookingConfirmed)

	d, err := svc.Create(context.Background(), "booking-1", validCreateRequest(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if d.Status != model.DeliverablePending {
		t.Errorf("expected status PENDING, got %s", d.Status)
	}
	if d.CompletedAt != nil {
		t.Error("expected completed_at to be unset on creation")
	}
}

// Scenario: a deliverable past its due date reads as overdue until it is
// completed, at which point overdue clears regardless of wall-clock time.
func TestUpdateStatus_CompletionClearsOverdue(t *testing.T) {
	repo := newMockDeliverableRepository()
	svc := newTestDeliverableService(repo, model.BookingConfirmed)

	dueDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	d, err := svc.Create(context.Background(), "booking-1", validCreateRequest(dueDate))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !d.IsOverdue(now) {
		t.Error("expected pending deliverable past due date to be overdue")
	}

	d, err = svc.UpdateStatus(context.Background(), d.ID, &model.DeliverableStatusUpdate{Status: model.DeliverableInProgress})
	if err != nil {
		t.Fatalf("UpdateStatus to IN_PROGRESS failed: %v", err)
	}

	d, err = svc.UpdateStatus(context.Background(), d.ID, &model.DeliverableStatusUpdate{Status: model.DeliverableCompleted})
	if err != nil {
		t.Fatalf("UpdateStatus to COMPLETED failed: %v", err)
	}

	if d.IsOverdue(now) {
		t.Error("expected completed deliverable to never be overdue")
	}
	if d.CompletedAt == nil {
		t.Error("expected completed_at to be stamped on completion")
	}
}

func TestUpdateStatus_ForwardOnly(t *testing.T) {
	repo := newMockDeliverableRepository()
	svc := newTestDeliverableService(repo, model.BookingConfirmed)

	d, err := svc.Create(context.Background(), "booking-1", validCreateRequest(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	d, err = svc.UpdateStatus(context.Background(), d.ID, &model.DeliverableStatusUpdate{Status: model.DeliverableCompleted})
	if err != nil {
		t.Fatalf("UpdateStatus to COMPLETED failed: %v", err)
	}

	for _, target := range []model.DeliverableStatus{
		model.DeliverablePending,
		model.DeliverableInProgress,
		model.DeliverableCompleted,
	} {
		_, err := svc.UpdateStatus(context.Background(), d.ID, &model.DeliverableStatusUpdate{Status: target})
		if err == nil {
			t.Errorf("expected COMPLETED deliverable to reject transition to %s", target)
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidTransition {
			t.Errorf("expected INVALID_TRANSITION for %s, got %s", target, appErr.Code)
		}
	}
}

func TestUpdateStatus_StaleVersionConflict(t *testing.T) {
	repo := newMockDeliverableRepository()
	svc := newTestDeliverableService(repo, model.BookingConfirmed)

	d, err := svc.Create(context.Background(), "booking-1", validCreateRequest(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stale := d.Version - 1
	_, err = svc.UpdateStatus(context.Background(), d.ID, &model.DeliverableStatusUpdate{
		Status:          model.DeliverableInProgress,
		ExpectedVersion: &stale,
	})
	if err == nil {
		t.Fatal("expected conflict for stale version")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", appErr.Code)
	}
}

func TestListByBooking_UnknownBooking(t *testing.T) {
	svc := newTestDeliverableService(newMockDeliverableRepository(), model.BookingConfirmed)

	_, err := svc.ListByBooking(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for unknown booking")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}
}
