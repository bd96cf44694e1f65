package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"vendora/pkg/cache"
	"vendora/pkg/config"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/model"
)

// typePriority orders entries sharing a date: milestones first, then setup
// markers, then deliverables, then communication. Remaining ties fall back
// to booking id and finally entry id, so the ordering is total and stable
// across recomputation.
var typePriority = map[model.TimelineEventType]int{
	model.TimelineMilestone:     0,
	model.TimelineSetup:         1,
	model.TimelineDeliverable:   2,
	model.TimelineCommunication: 3,
}

type TimelineService interface {
	GetTimeline(ctx context.Context, eventID string) ([]model.TimelineEvent, error)
}

// The aggregator only reads; it declares the narrow slices of the booking,
// deliverable, and messaging repositories it depends on.
type BookingSource interface {
	FindActiveByEvent(ctx context.Context, eventID string) ([]*model.VendorBooking, error)
}

type DeliverableSource interface {
	FindByBookings(ctx context.Context, bookingIDs []string) ([]*model.Deliverable, error)
}

type MessageSource interface {
	FindLatestMessagePerBooking(ctx context.Context, bookingIDs []string) (map[string]*model.BookingMessage, error)
}

// timelineService derives the per-event view on every call. It holds no
// state of its own beyond the read-through cache, so it can never drift
// from the bookings, deliverables, and messages it reads.
type timelineService struct {
	bookings     BookingSource
	deliverables DeliverableSource
	messages     MessageSource
	cache        cache.TimelineCache
	cfg          *config.Config
}

func NewTimelineService(
	bookings BookingSource,
	deliverables DeliverableSource,
	messages MessageSource,
	timelineCache cache.TimelineCache,
	cfg *config.Config,
) TimelineService {
	return &timelineService{
		bookings:     bookings,
		deliverables: deliverables,
		messages:     messages,
		cache:        timelineCache,
		cfg:          cfg,
	}
}

func (s *timelineService) GetTimeline(ctx context.Context, eventID string) ([]model.TimelineEvent, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	now := time.Now().UTC()
	if entries, ok := s.cache.Get(ctx, eventID); ok {
		return substituteOverdue(entries, now), nil
	}

	entries, err := s.compute(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, eventID, entries)
	return substituteOverdue(entries, now), nil
}

func (s *timelineService) compute(ctx context.Context, eventID string) ([]model.TimelineEvent, error) {
	bookings, err := s.bookings.FindActiveByEvent(ctx, eventID)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for timeline", "event_id", eventID, "error", err)
		return nil, apperrors.Internal("Failed to aggregate timeline", err)
	}

	bookingIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
	}

	var (
		wg           sync.WaitGroup
		deliverables []*model.Deliverable
		latest       map[string]*model.BookingMessage
		dErr, mErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		deliverables, dErr = s.deliverables.FindByBookings(ctx, bookingIDs)
	}()
	go func() {
		defer wg.Done()
		latest, mErr = s.messages.FindLatestMessagePerBooking(ctx, bookingIDs)
	}()
	wg.Wait()

	if dErr != nil {
		s.cfg.Log.Error("Failed to load deliverables for timeline", "event_id", eventID, "error", dErr)
		return nil, apperrors.Internal("Failed to aggregate timeline", dErr)
	}
	if mErr != nil {
		s.cfg.Log.Error("Failed to load messages for timeline", "event_id", eventID, "error", mErr)
		return nil, apperrors.Internal("Failed to aggregate timeline", mErr)
	}

	entries := make([]model.TimelineEvent, 0, len(bookings)*2+len(deliverables))

	for _, b := range bookings {
		if b.ConfirmedAt != nil {
			entries = append(entries, model.TimelineEvent{
				ID:        "milestone:" + b.ID,
				Title:     "Booking confirmed",
				Date:      *b.ConfirmedAt,
				Type:      model.TimelineMilestone,
				Status:    string(b.Status),
				VendorID:  b.VendorID,
				BookingID: b.ID,
			})
		}
		if at, ok := transitionTime(b, model.BookingInProgress); ok {
			entries = append(entries, model.TimelineEvent{
				ID:        "setup:" + b.ID,
				Title:     "Service started",
				Date:      at,
				Type:      model.TimelineSetup,
				Status:    string(b.Status),
				VendorID:  b.VendorID,
				BookingID: b.ID,
			})
		}
	}

	for _, d := range deliverables {
		entries = append(entries, model.TimelineEvent{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Date:        d.DueDate,
			Type:        model.TimelineDeliverable,
			Status:      string(d.Status),
			BookingID:   d.BookingID,
		})
	}

	for bookingID, m := range latest {
		entries = append(entries, model.TimelineEvent{
			ID:        "message:" + m.ID,
			Title:     "Latest message",
			Date:      m.SentAt,
			Type:      model.TimelineCommunication,
			Status:    string(m.SenderType),
			BookingID: bookingID,
		})
	}

	sortEntries(entries)
	return entries, nil
}

// sortEntries orders by date ascending, breaking ties by type priority,
// then booking id, then entry id.
func sortEntries(entries []model.TimelineEvent) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if typePriority[a.Type] != typePriority[b.Type] {
			return typePriority[a.Type] < typePriority[b.Type]
		}
		if a.BookingID != b.BookingID {
			return a.BookingID < b.BookingID
		}
		return a.ID < b.ID
	})
}

// substituteOverdue derives the OVERDUE display status against the current
// clock. Cached entries carry the stored deliverable status, so a warm cache
// still surfaces a deliverable that crossed its due date after the fill. The
// input slice is left untouched since in-memory caches may share it.
func substituteOverdue(entries []model.TimelineEvent, now time.Time) []model.TimelineEvent {
	out := make([]model.TimelineEvent, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].Type != model.TimelineDeliverable {
			continue
		}
		if out[i].Status != string(model.DeliverableCompleted) && out[i].Date.Before(now) {
			out[i].Status = string(model.DeliverableOverdue)
		}
	}
	return out
}

func transitionTime(b *model.VendorBooking, target model.BookingStatus) (time.Time, bool) {
	for _, change := range b.StatusHistory {
		if change.To == target {
			return change.At, true
		}
	}
	return time.Time{}, false
}
