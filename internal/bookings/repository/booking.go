package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "vendora/internal/bookings/errors"
	"vendora/pkg/config"
	mongotx "vendora/pkg/db/mongo"
	"vendora/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Vendor_bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.VendorBooking) error
	FindByID(ctx context.Context, id string) (*model.VendorBooking, error)
	FindActiveByEventAndListing(ctx context.Context, eventID, listingID string) (*model.VendorBooking, error)
	FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.VendorBooking, error)
	FindActiveByEvent(ctx context.Context, eventID string) ([]*model.VendorBooking, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	ApplyTransition(ctx context.Context, id string, version int64, change model.StatusChange, finalPrice *float64, confirmedAt *time.Time) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.VendorBooking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.VendorBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.VendorBooking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindActiveByEventAndListing returns the non-cancelled booking for the
// pair, if any. At most one such booking exists at a time; a new quote
// request is only allowed once the previous booking is CANCELLED.
func (r *mongoBookingRepository) FindActiveByEventAndListing(ctx context.Context, eventID, listingID string) (*model.VendorBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"event_id":           eventID,
		"service_listing_id": listingID,
		"status":             bson.M{"$ne": model.BookingCancelled},
	}

	var booking model.VendorBooking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.VendorBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.VendorBooking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// FindActiveByEvent returns every non-cancelled booking for the event,
// unpaginated. Used by the timeline aggregator.
func (r *mongoBookingRepository) FindActiveByEvent(ctx context.Context, eventID string) ([]*model.VendorBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"event_id": eventID,
		"status":   bson.M{"$ne": model.BookingCancelled},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "service_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.VendorBooking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode active bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

// ApplyTransition writes one status change guarded by the version the
// caller read. A concurrent writer bumps the version first and this update
// matches nothing, which surfaces as ErrVersionConflict.
func (r *mongoBookingRepository) ApplyTransition(ctx context.Context, id string, version int64, change model.StatusChange, finalPrice *float64, confirmedAt *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"status":     change.To,
		"updated_at": change.At,
	}
	if finalPrice != nil {
		set["final_price"] = *finalPrice
	}
	if confirmedAt != nil {
		set["confirmed_at"] = *confirmedAt
	}

	filter := bson.M{"_id": objectID, "version": version}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"status_history": change},
		"$inc":  bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish a stale version from a missing document.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr == nil && count > 0 {
			return bookingserrors.ErrVersionConflict
		}
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
