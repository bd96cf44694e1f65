package repository

import (
	"context"
	"time"

	"vendora/pkg/config"
	"vendora/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuoteLockRepository provides advisory locks for quote-request creation.
type QuoteLockRepository interface {
	Create(ctx context.Context, lock *model.QuoteLock) (*model.QuoteLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoQuoteLockRepository struct {
	collection *mongo.Collection
}

func NewQuoteLockRepository(cfg *config.Config) QuoteLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoQuoteLockRepository{
		collection: db.Collection("Quote_locks"),
	}
}

// Returns duplicate key error if lock already exists
func (r *mongoQuoteLockRepository) Create(ctx context.Context, lock *model.QuoteLock) (*model.QuoteLock, error) {
	lock.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoQuoteLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
