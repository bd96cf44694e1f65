package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	deliverableerrors "vendora/internal/deliverables/errors"
	"vendora/pkg/config"
	"vendora/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Deliverables"
)

type mongoDeliverableRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type DeliverableRepository interface {
	Create(ctx context.Context, deliverable *model.Deliverable) error
	FindByID(ctx context.Context, id string) (*model.Deliverable, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.Deliverable, error)
	FindByBookings(ctx context.Context, bookingIDs []string) ([]*model.Deliverable, error)
	UpdateStatus(ctx context.Context, id string, version int64, status model.DeliverableStatus, completedAt *time.Time) error
}

func NewMongoDeliverableRepository(cfg *config.Config) DeliverableRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDeliverableRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDeliverableRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoDeliverableRepository) Create(ctx context.Context, deliverable *model.Deliverable) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	deliverable.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, deliverable)
	if err != nil {
		return fmt.Errorf("failed to create deliverable: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		deliverable.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDeliverableRepository) FindByID(ctx context.Context, id string) (*model.Deliverable, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", deliverableerrors.ErrInvalidID, id)
	}

	var deliverable model.Deliverable
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&deliverable)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, deliverableerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find deliverable: %w", err)
	}

	return &deliverable, nil
}

func (r *mongoDeliverableRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.Deliverable, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find deliverables: %w", err)
	}
	defer cursor.Close(ctx)

	var deliverables []*model.Deliverable
	if err = cursor.All(ctx, &deliverables); err != nil {
		return nil, fmt.Errorf("failed to decode deliverables: %w", err)
	}

	return deliverables, nil
}

// FindByBookings loads deliverables across several bookings in one query.
// Used by the timeline aggregator.
func (r *mongoDeliverableRepository) FindByBookings(ctx context.Context, bookingIDs []string) ([]*model.Deliverable, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bson.M{"$in": bookingIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find deliverables: %w", err)
	}
	defer cursor.Close(ctx)

	var deliverables []*model.Deliverable
	if err = cursor.All(ctx, &deliverables); err != nil {
		return nil, fmt.Errorf("failed to decode deliverables: %w", err)
	}

	return deliverables, nil
}

// UpdateStatus writes one status change guarded by the version the caller
// read. CompletedAt is only ever written together with COMPLETED.
func (r *mongoDeliverableRepository) UpdateStatus(ctx context.Context, id string, version int64, status model.DeliverableStatus, completedAt *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", deliverableerrors.ErrInvalidID, id)
	}

	set := bson.M{"status": status}
	if completedAt != nil {
		set["completed_at"] = *completedAt
	}

	filter := bson.M{"_id": objectID, "version": version}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update deliverable status: %w", err)
	}

	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr == nil && count > 0 {
			return deliverableerrors.ErrVersionConflict
		}
		return deliverableerrors.ErrNotFound
	}

	return nil
}
