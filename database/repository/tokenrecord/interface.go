package tokenrecordRepo

import (
	"context"
	"errors"
	"log"
	"time"

	"tally/database"
	"tally/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateRecord reports that a record for (userId, timeSlotId)
	// already exists. Reconciliation treats it as success.
	ErrDuplicateRecord = errors.New("token record already exists for this slot")
	// ErrRecordNotFound reports an absent record.
	ErrRecordNotFound = errors.New("token record not found")
)

// ListQuery narrows and pages a per-user record listing.
type ListQuery struct {
	FromDate string // inclusive "YYYY-MM-DD", optional
	ToDate   string // inclusive "YYYY-MM-DD", optional
	TimeSlot string // exact "HH:MM" label, optional
	Page     int    // 1-based; values < 1 mean first page
	Limit    int    // values < 1 fall back to a default page size
}

// Page is one page of a listing plus the unpaged total.
type Page struct {
	Records []models.TokenRecord `json:"records"`
	Total   int64                `json:"total"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
}

// Repository is the token record store. Insert enforces the per-user
// one-record-per-slot invariant via a unique compound index and
// surfaces races as ErrDuplicateRecord.
type Repository interface {
	Insert(ctx context.Context, record models.TokenRecord) (*models.TokenRecord, error)
	Update(ctx context.Context, recordID string, entries []models.TokenEntry, counts models.CountVector, savedAt time.Time) (*models.TokenRecord, error)
	FindBySlotID(ctx context.Context, userID, timeSlotID string) (*models.TokenRecord, error)
	FindLatest(ctx context.Context, userID string) (*models.TokenRecord, error)
	ListByUser(ctx context.Context, userID string, q ListQuery) (*Page, error)
	DeleteBySlotID(ctx context.Context, userID, timeSlotID string) error
}

type mongoTokenRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoTokenRecordRepo constructs the MongoDB-backed Repository.
func NewMongoTokenRecordRepo() Repository {
	db := database.MongoClient.Database(database.DatabaseName)
	repo := &mongoTokenRecordRepo{
		coll: db.Collection("token_records"),
	}
	// The unique (userId, timeSlotId) index is the concurrency control
	// for reconciliation; refuse to start without it.
	if err := repo.EnsureIndexes(); err != nil {
		log.Fatalf("failed to create token record indexes: %v", err)
	}
	return repo
}
