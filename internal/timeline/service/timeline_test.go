package service

import (
	"context"
	"testing"
	"time"

	"vendora/pkg/cache"
	"vendora/pkg/config"
	"vendora/pkg/logger"
	"vendora/pkg/model"
)

type stubBookingRepo struct {
	bookings []*model.VendorBooking
}

func (s *stubBookingRepo) FindActiveByEvent(ctx context.Context, eventID string) ([]*model.VendorBooking, error) {
	return s.bookings, nil
}

type stubDeliverableRepo struct {
	deliverables []*model.Deliverable
}

func (s *stubDeliverableRepo) FindByBookings(ctx context.Context, bookingIDs []string) ([]*model.Deliverable, error) {
	return s.deliverables, nil
}

type stubMessagingRepo struct {
	latest map[string]*model.BookingMessage
}

func (s *stubMessagingRepo) FindLatestMessagePerBooking(ctx context.Context, bookingIDs []string) (map[string]*model.BookingMessage, error) {
	if s.latest == nil {
		return map[string]*model.BookingMessage{}, nil
	}
	return s.latest, nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return &config.Config{Log: log}
}

func confirmedBooking(id string, confirmedAt time.Time) *model.VendorBooking {
	return &model.VendorBooking{
		ID:          id,
		EventID:     "event-1",
		VendorID:    "vendor-" + id,
		Status:      model.BookingConfirmed,
		ConfirmedAt: &confirmedAt,
		StatusHistory: []model.StatusChange{
			{To: model.BookingPending, Actor: model.ActorOrganizer, At: confirmedAt.Add(-time.Hour)},
			{To: model.BookingConfirmed, Actor: model.ActorOrganizer, At: confirmedAt},
		},
	}
}

func TestGetTimeline_SortedByDate(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := &timelineService{
		bookings: &stubBookingRepo{bookings: []*model.VendorBooking{
			confirmedBooking("b1", base.Add(48*time.Hour)),
			confirmedBooking("b2", base),
		}},
		deliverables: &stubDeliverableRepo{deliverables: []*model.Deliverable{
			{ID: "d1", BookingID: "b1", Title: "Album", DueDate: base.Add(24 * time.Hour), Status: model.DeliverablePending},
			{ID: "d2", BookingID: "b2", Title: "Menu", DueDate: base.Add(-24 * time.Hour), Status: model.DeliverableCompleted},
		}},
		messages: &stubMessagingRepo{latest: map[string]*model.BookingMessage{
			"b2": {ID: "m1", BookingID: "b2", SenderType: model.ActorVendor, SentAt: base.Add(12 * time.Hour)},
		}},
		cache: cache.NoopTimelineCache{},
		cfg:   testConfig(),
	}

	entries, err := svc.GetTimeline(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}

	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.Before(entries[i-1].Date) {
			t.Errorf("entries out of order at %d: %s after %s", i, entries[i].Date, entries[i-1].Date)
		}
	}
}

func TestGetTimeline_OverdueSubstitution(t *testing.T) {
	// Due date far in the past relative to any test run.
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	svc := &timelineService{
		bookings: &stubBookingRepo{bookings: []*model.VendorBooking{
			confirmedBooking("b1", due.Add(-24 * time.Hour)),
		}},
		deliverables: &stubDeliverableRepo{deliverables: []*model.Deliverable{
			{ID: "d1", BookingID: "b1", Title: "Overdue item", DueDate: due, Status: model.DeliverablePending},
			{ID: "d2", BookingID: "b1", Title: "Done item", DueDate: due, Status: model.DeliverableCompleted},
		}},
		messages: &stubMessagingRepo{},
		cache:    cache.NoopTimelineCache{},
		cfg:      testConfig(),
	}

	entries, err := svc.GetTimeline(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}

	statuses := map[string]string{}
	for _, e := range entries {
		if e.Type == model.TimelineDeliverable {
			statuses[e.ID] = e.Status
		}
	}

	if statuses["d1"] != string(model.DeliverableOverdue) {
		t.Errorf("expected pending past-due deliverable to surface as OVERDUE, got %s", statuses["d1"])
	}
	if statuses["d2"] != string(model.DeliverableCompleted) {
		t.Errorf("expected completed deliverable to keep COMPLETED, got %s", statuses["d2"])
	}
}

func TestGetTimeline_TieBreakByTypeThenBooking(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	b1 := confirmedBooking("b1", at)
	b2 := confirmedBooking("b2", at)

	svc := &timelineService{
		bookings: &stubBookingRepo{bookings: []*model.VendorBooking{b2, b1}},
		deliverables: &stubDeliverableRepo{deliverables: []*model.Deliverable{
			{ID: "d1", BookingID: "b1", Title: "Same-day item", DueDate: at, Status: model.DeliverableInProgress},
		}},
		messages: &stubMessagingRepo{latest: map[string]*model.BookingMessage{
			"b1": {ID: "m1", BookingID: "b1", SenderType: model.ActorOrganizer, SentAt: at},
		}},
		cache: cache.NoopTimelineCache{},
		cfg:   testConfig(),
	}

	entries, err := svc.GetTimeline(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, string(e.Type)+":"+e.BookingID)
	}

	want := []string{
		"MILESTONE:b1",
		"MILESTONE:b2",
		"DELIVERABLE:b1",
		"COMMUNICATION:b1",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

type countingCache struct {
	entries []model.TimelineEvent
	hits    int
	sets    int
	has     bool
}

func (c *countingCache) Get(ctx context.Context, eventID string) ([]model.TimelineEvent, bool) {
	if c.has {
		c.hits++
		return c.entries, true
	}
	return nil, false
}

func (c *countingCache) Set(ctx context.Context, eventID string, entries []model.TimelineEvent) {
	c.sets++
	c.entries = entries
	c.has = true
}

func (c *countingCache) Invalidate(ctx context.Context, eventID string) {
	c.has = false
}

func TestGetTimeline_ReadThroughCache(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cc := &countingCache{}

	svc := &timelineService{
		bookings:     &stubBookingRepo{bookings: []*model.VendorBooking{confirmedBooking("b1", at)}},
		deliverables: &stubDeliverableRepo{},
		messages:     &stubMessagingRepo{},
		cache:        cc,
		cfg:          testConfig(),
	}

	if _, err := svc.GetTimeline(context.Background(), "event-1"); err != nil {
		t.Fatalf("first GetTimeline failed: %v", err)
	}
	if _, err := svc.GetTimeline(context.Background(), "event-1"); err != nil {
		t.Fatalf("second GetTimeline failed: %v", err)
	}

	if cc.sets != 1 {
		t.Errorf("expected one cache fill, got %d", cc.sets)
	}
	if cc.hits != 1 {
		t.Errorf("expected one cache hit, got %d", cc.hits)
	}
}

func TestGetTimeline_OverdueDerivedOnCacheHit(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cc := &countingCache{
		has: true,
		entries: []model.TimelineEvent{
			{ID: "d1", Date: due, Type: model.TimelineDeliverable, Status: string(model.DeliverablePending), BookingID: "b1"},
			{ID: "d2", Date: due, Type: model.TimelineDeliverable, Status: string(model.DeliverableCompleted), BookingID: "b1"},
		},
	}

	svc := &timelineService{
		bookings:     &stubBookingRepo{},
		deliverables: &stubDeliverableRepo{},
		messages:     &stubMessagingRepo{},
		cache:        cc,
		cfg:          testConfig(),
	}

	entries, err := svc.GetTimeline(context.Background(), "event-1")
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if cc.hits != 1 {
		t.Fatalf("expected the cached entries to be served, got %d hits", cc.hits)
	}

	statuses := map[string]string{}
	for _, e := range entries {
		statuses[e.ID] = e.Status
	}
	if statuses["d1"] != string(model.DeliverableOverdue) {
		t.Errorf("expected cached pending past-due deliverable to surface as OVERDUE, got %s", statuses["d1"])
	}
	if statuses["d2"] != string(model.DeliverableCompleted) {
		t.Errorf("expected cached completed deliverable to keep COMPLETED, got %s", statuses["d2"])
	}

	// The cache itself must keep the stored status untouched.
	if cc.entries[0].Status != string(model.DeliverablePending) {
		t.Errorf("expected cached entry to keep its stored status, got %s", cc.entries[0].Status)
	}
}
