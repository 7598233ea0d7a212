// FILE: database/repository/tokenrecord/indexes.go
package tokenrecordRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the token_records collection.
func (r *mongoTokenRecordRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique record ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One record per user per slot; duplicate-key errors here are the
		// expected outcome of concurrent reconciliations.
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "timeSlotId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_user_slot"),
		},
		// Latest-record lookup and chronological listings
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}, {Key: "timeSlot", Value: 1}},
			Options: options.Index().SetName("user_date_slot_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create token record indexes: %w", err)
	}
	return nil
}
