package tokenrecordRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tally/models"
)

func (r *mongoTokenRecordRepo) Insert(ctx context.Context, record models.TokenRecord) (*models.TokenRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Entries == nil {
		record.Entries = []models.TokenEntry{}
	}
	if record.SavedAt.IsZero() {
		record.SavedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRecord, record.TimeSlotID)
		}
		return nil, fmt.Errorf("failed to insert token record: %w", err)
	}
	return &record, nil
}

func (r *mongoTokenRecordRepo) Update(ctx context.Context, recordID string, entries []models.TokenEntry, counts models.CountVector, savedAt time.Time) (*models.TokenRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entries == nil {
		entries = []models.TokenEntry{}
	}
	update := bson.M{"$set": bson.M{
		"entries": entries,
		"counts":  counts,
		"savedAt": savedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": recordID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update token record: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: id %s", ErrRecordNotFound, recordID)
	}

	var updated models.TokenRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": recordID}).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to fetch updated token record: %w", err)
	}
	return &updated, nil
}

func (r *mongoTokenRecordRepo) FindBySlotID(ctx context.Context, userID, timeSlotID string) (*models.TokenRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "timeSlotId": timeSlotID}
	var record models.TokenRecord
	if err := r.coll.FindOne(ctx, filter).Decode(&record); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, timeSlotID)
		}
		return nil, fmt.Errorf("failed to fetch token record: %w", err)
	}
	return &record, nil
}

func (r *mongoTokenRecordRepo) DeleteBySlotID(ctx context.Context, userID, timeSlotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "timeSlotId": timeSlotID})
	if err != nil {
		return fmt.Errorf("failed to delete token record: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, timeSlotID)
	}
	return nil
}
