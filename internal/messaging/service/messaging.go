package service

import (
	"context"
	"errors"
	"sync"
	"time"

	messagingerrors "vendora/internal/messaging/errors"
	"vendora/internal/messaging/repository"
	"vendora/pkg/cache"
	"vendora/pkg/config"
	apperrors "vendora/pkg/errors"
	"vendora/pkg/events"
	"vendora/pkg/model"
	"vendora/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type MessagingService interface {
	CreateChannel(ctx context.Context, bookingID, eventID, vendorID string) error
	PostMessage(ctx context.Context, bookingID string, req *model.PostMessageRequest) (*model.BookingMessage, error)
	ListMessages(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.BookingMessage, int64, error)
}

type messagingService struct {
	repo      repository.MessagingRepository
	publisher events.Publisher
	timeline  cache.TimelineCache
	validate  *validator.Validate
	cfg       *config.Config
}

func NewMessagingService(
	repo repository.MessagingRepository,
	publisher events.Publisher,
	timeline cache.TimelineCache,
	cfg *config.Config,
) MessagingService {
	return &messagingService{
		repo:      repo,
		publisher: publisher,
		timeline:  timeline,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// CreateChannel opens the per-booking channel. Called by the bookings
// service inside the confirmation transaction; creating a channel that
// already exists is a no-op so confirmation retries stay safe.
func (s *messagingService) CreateChannel(ctx context.Context, bookingID, eventID, vendorID string) error {
	if bookingID == "" || eventID == "" {
		return apperrors.InvalidInput("Booking ID and event ID cannot be empty")
	}

	if _, err := s.repo.FindChannelByBooking(ctx, bookingID); err == nil {
		s.cfg.Log.Debug("Message channel already exists", "booking_id", bookingID)
		return nil
	} else if !errors.Is(err, messagingerrors.ErrChannelNotFound) {
		return apperrors.Internal("Failed to check message channel", err)
	}

	channel := &model.MessageChannel{
		BookingID: bookingID,
		EventID:   eventID,
		VendorID:  vendorID,
	}
	if err := s.repo.CreateChannel(ctx, channel); err != nil {
		s.cfg.Log.Error("Failed to create message channel", "booking_id", bookingID, "error", err)
		return apperrors.Internal("Failed to create message channel", err)
	}

	s.cfg.Log.Info("Message channel created", "id", channel.ID, "booking_id", bookingID)
	return nil
}

// PostMessage appends to the booking's channel. Without a channel the
// booking has not been confirmed yet and posting is an invalid state.
func (s *messagingService) PostMessage(ctx context.Context, bookingID string, req *model.PostMessageRequest) (*model.BookingMessage, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validate.Struct(req); err != nil {
		s.cfg.Log.Warn("Message validation failed", "booking_id", bookingID, "error", err)
		return nil, apperrors.Validation("Invalid message input", map[string]any{"error": err.Error()})
	}

	channel, err := s.channelFor(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	message := &model.BookingMessage{
		BookingID:   bookingID,
		SenderID:    req.SenderID,
		SenderType:  req.SenderType,
		Message:     sanitizer.SanitizeFreeText(req.Message),
		SentAt:      time.Now().UTC().Truncate(time.Millisecond),
		Attachments: req.Attachments,
	}
	for i := range message.Attachments {
		if message.Attachments[i].ID == "" {
			message.Attachments[i].ID = uuid.NewString()
		}
	}

	if err := s.repo.AppendMessage(ctx, message); err != nil {
		s.cfg.Log.Error("Failed to append message", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to post message", err)
	}

	s.cfg.Log.Info("Message posted",
		"id", message.ID,
		"booking_id", bookingID,
		"sender_type", message.SenderType,
	)

	s.publisher.Publish(ctx, events.TypeMessagePosted, bookingID, events.MessagePosted{
		MessageID:  message.ID,
		BookingID:  bookingID,
		SenderType: message.SenderType,
		SentAt:     message.SentAt,
	})
	s.timeline.Invalidate(ctx, channel.EventID)

	return message, nil
}

func (s *messagingService) ListMessages(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.BookingMessage, int64, error) {
	if bookingID == "" {
		return nil, 0, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if _, err := s.channelFor(ctx, bookingID); err != nil {
		return nil, 0, err
	}

	var count int64
	var messages []*model.BookingMessage
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountMessagesByBooking(ctx, bookingID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count messages", "booking_id", bookingID, "error", errCount)
			errCount = apperrors.Internal("Failed to count messages", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		messages, errFind = s.repo.FindMessagesByBooking(ctx, bookingID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list messages", "booking_id", bookingID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve messages", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return messages, count, nil
}

func (s *messagingService) channelFor(ctx context.Context, bookingID string) (*model.MessageChannel, error) {
	channel, err := s.repo.FindChannelByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, messagingerrors.ErrChannelNotFound) {
			return nil, apperrors.InvalidState("Messaging is unavailable until the booking is confirmed")
		}
		return nil, apperrors.Internal("Failed to load message channel", err)
	}
	return channel, nil
}
