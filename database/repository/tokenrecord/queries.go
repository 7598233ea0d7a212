package tokenrecordRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tally/models"
)

const defaultPageSize = 50

// FindLatest returns the record with the greatest (date, timeSlot) pair
// for the user. Zero-padded labels sort chronologically, so the
// lexicographic sort is also the time order.
func (r *mongoTokenRecordRepo) FindLatest(ctx context.Context, userID string) (*models.TokenRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "timeSlot", Value: -1},
	})

	var record models.TokenRecord
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: no records for user %s", ErrRecordNotFound, userID)
		}
		return nil, fmt.Errorf("failed to fetch latest token record: %w", err)
	}
	return &record, nil
}

// ListByUser pages the user's records in chronological order, optionally
// narrowed to a date range or a single slot label.
func (r *mongoTokenRecordRepo) ListByUser(ctx context.Context, userID string, q ListQuery) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID}
	if q.FromDate != "" || q.ToDate != "" {
		dateRange := bson.M{}
		if q.FromDate != "" {
			dateRange["$gte"] = q.FromDate
		}
		if q.ToDate != "" {
			dateRange["$lte"] = q.ToDate
		}
		filter["date"] = dateRange
	}
	if q.TimeSlot != "" {
		filter["timeSlot"] = q.TimeSlot
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count token records: %w", err)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "timeSlot", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list token records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.TokenRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding token records: %w", err)
	}

	return &Page{Records: records, Total: total, Page: page, Limit: limit}, nil
}
