package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	shortlisterrors "vendora/internal/shortlist/errors"
	"vendora/pkg/config"
	"vendora/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Shortlist_items"
)

type mongoShortlistRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type ShortlistRepository interface {
	Upsert(ctx context.Context, item *model.ShortlistItem) (*model.ShortlistItem, error)
	FindByID(ctx context.Context, id string) (*model.ShortlistItem, error)
	FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.ShortlistItem, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	UpdateNotes(ctx context.Context, id string, notes string) error
	Delete(ctx context.Context, id string) error
}

func NewMongoShortlistRepository(cfg *config.Config) ShortlistRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoShortlistRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoShortlistRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Upsert inserts the item unless one already exists for the same
// (event_id, service_listing_id) pair, in which case the existing document
// is returned untouched. The unique index makes concurrent adds collapse
// into a single document.
func (r *mongoShortlistRepository) Upsert(ctx context.Context, item *model.ShortlistItem) (*model.ShortlistItem, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"event_id":           item.EventID,
		"service_listing_id": item.ServiceListingID,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"event_id":           item.EventID,
			"service_listing_id": item.ServiceListingID,
			"notes":              item.Notes,
			"added_at":           time.Now().UTC().Truncate(time.Millisecond),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result model.ShortlistItem
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to upsert shortlist item: %w", err)
	}

	return &result, nil
}

func (r *mongoShortlistRepository) FindByID(ctx context.Context, id string) (*model.ShortlistItem, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shortlisterrors.ErrInvalidID, id)
	}

	var item model.ShortlistItem
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shortlisterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shortlist item: %w", err)
	}

	return &item, nil
}

func (r *mongoShortlistRepository) FindByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.ShortlistItem, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "added_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find shortlist items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*model.ShortlistItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode shortlist items: %w", err)
	}

	return items, nil
}

func (r *mongoShortlistRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("failed to count shortlist items: %w", err)
	}

	return count, nil
}

func (r *mongoShortlistRepository) UpdateNotes(ctx context.Context, id string, notes string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", shortlisterrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"notes": notes}},
	)
	if err != nil {
		return fmt.Errorf("failed to update shortlist notes: %w", err)
	}

	if result.MatchedCount == 0 {
		return shortlisterrors.ErrNotFound
	}

	return nil
}

func (r *mongoShortlistRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", shortlisterrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete shortlist item: %w", err)
	}

	if result.DeletedCount == 0 {
		return shortlisterrors.ErrNotFound
	}

	return nil
}
