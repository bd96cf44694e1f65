package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	messagingerrors "vendora/internal/messaging/errors"
	"vendora/pkg/config"
	"vendora/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ChannelCollectionName = "Message_channels"
	MessageCollectionName = "Booking_messages"
)

type mongoMessagingRepository struct {
	cfg      *config.Config
	channels *mongo.Collection
	messages *mongo.Collection
}

// MessagingRepository stores one channel per booking and its append-only
// message log. Messages are never updated or deleted.
type MessagingRepository interface {
	CreateChannel(ctx context.Context, channel *model.MessageChannel) error
	FindChannelByBooking(ctx context.Context, bookingID string) (*model.MessageChannel, error)
	AppendMessage(ctx context.Context, message *model.BookingMessage) error
	FindMessagesByBooking(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.BookingMessage, error)
	CountMessagesByBooking(ctx context.Context, bookingID string) (int64, error)
	FindLatestMessagePerBooking(ctx context.Context, bookingIDs []string) (map[string]*model.BookingMessage, error)
}

func NewMongoMessagingRepository(cfg *config.Config) MessagingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMessagingRepository{
		cfg:      cfg,
		channels: db.Collection(ChannelCollectionName),
		messages: db.Collection(MessageCollectionName),
	}
}

func (r *mongoMessagingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoMessagingRepository) CreateChannel(ctx context.Context, channel *model.MessageChannel) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	channel.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.channels.InsertOne(ctx, channel)
	if err != nil {
		return fmt.Errorf("failed to create message channel: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		channel.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMessagingRepository) FindChannelByBooking(ctx context.Context, bookingID string) (*model.MessageChannel, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var channel model.MessageChannel
	err := r.channels.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&channel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, messagingerrors.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to find message channel: %w", err)
	}

	return &channel, nil
}

func (r *mongoMessagingRepository) AppendMessage(ctx context.Context, message *model.BookingMessage) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		message.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMessagingRepository) FindMessagesByBooking(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.BookingMessage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.messages.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*model.BookingMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}

func (r *mongoMessagingRepository) CountMessagesByBooking(ctx context.Context, bookingID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.messages.CountDocuments(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}

// FindLatestMessagePerBooking returns the newest message for each booking
// that has one. Used by the timeline aggregator for communication markers.
func (r *mongoMessagingRepository) FindLatestMessagePerBooking(ctx context.Context, bookingIDs []string) (map[string]*model.BookingMessage, error) {
	if len(bookingIDs) == 0 {
		return map[string]*model.BookingMessage{}, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"booking_id": bson.M{"$in": bookingIDs}}}},
		{{Key: "$sort", Value: bson.D{{Key: "sent_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$booking_id",
			"doc": bson.M{"$first": "$$ROOT"},
		}}},
	}

	cursor, err := r.messages.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate latest messages: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		BookingID string               `bson:"_id"`
		Doc       model.BookingMessage `bson:"doc"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode latest messages: %w", err)
	}

	latest := make(map[string]*model.BookingMessage, len(rows))
	for i := range rows {
		latest[rows[i].BookingID] = &rows[i].Doc
	}

	return latest, nil
}
