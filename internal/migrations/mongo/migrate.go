package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vendora/internal/migrations/mongo/validators"
)

var (
	VendorBookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "event_id", Value: 1},
			{Key: "service_listing_id", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "event_id", Value: 1},
			{Key: "created_at", Value: 1},
		}},
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}},
	}

	// The unique pair index is what makes shortlist adds idempotent.
	ShortlistIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "service_listing_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	DeliverablesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "booking_id", Value: 1},
			{Key: "due_date", Value: 1},
		}},
	}

	MessageChannelsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	BookingMessagesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "booking_id", Value: 1},
			{Key: "sent_at", Value: 1},
		}},
	}

)

// QuoteLocksIndexes expires locks left behind by crashed holders after ttl.
func QuoteLocksIndexes(ttl time.Duration) []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, quoteLockTTL time.Duration) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running marketplace Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Vendor_bookings": {
			Indexes:   VendorBookingsIndexes,
			Validator: validators.VendorBookingValidator,
		},
		"Shortlist_items": {
			Indexes:   ShortlistIndexes,
			Validator: validators.ShortlistItemValidator,
		},
		"Deliverables": {
			Indexes:   DeliverablesIndexes,
			Validator: validators.DeliverableValidator,
		},
		"Message_channels": {
			Indexes:   MessageChannelsIndexes,
			Validator: validators.MessageChannelValidator,
		},
		"Booking_messages": {
			Indexes:   BookingMessagesIndexes,
			Validator: validators.BookingMessageValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	// Quote_locks carries no validator, only the TTL index.
	if err := ensureIndexes(ctx, db, "Quote_locks", QuoteLocksIndexes(quoteLockTTL)); err != nil {
		return fmt.Errorf("failed to ensure indexes for Quote_locks: %w", err)
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)

	opts := options.CreateIndexes().SetMaxTime(30 * time.Second)
	_, err := coll.Indexes().CreateMany(ctx, models, opts)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
