package token

import (
	"context"
	"time"

	tokenrecordRepo "tally/database/repository/tokenrecord"
	"tally/models"
	"tally/schedule"
)

// SubmitResult reports the outcome of a token data submission.
type SubmitResult struct {
	Created bool                `json:"created"`
	Record  *models.TokenRecord `json:"record"`
}

// TokenService owns the slot-grid token records of all users: submission
// merging, reads, and the backfill reconciliation that keeps every
// user's grid materialized up to the current moment.
type TokenService interface {
	// SubmitTokenData inserts the slot's record or merges the incoming
	// entries into the existing one.
	SubmitTokenData(ctx context.Context, userID string, slotID schedule.SlotID, entries []models.TokenEntry) (*SubmitResult, error)

	// ListRecords reconciles the user's grid up to now (best effort),
	// then returns the requested page.
	ListRecords(ctx context.Context, userID string, q tokenrecordRepo.ListQuery) (*tokenrecordRepo.Page, error)

	// GetRecord returns one record by its slot identifier.
	GetRecord(ctx context.Context, userID, timeSlotID string) (*models.TokenRecord, error)

	// DeleteRecord removes one record by its slot identifier.
	DeleteRecord(ctx context.Context, userID, timeSlotID string) error

	// Reconcile materializes zero-valued records for every grid slot
	// between the user's latest record and now. Idempotent and safe to
	// call concurrently.
	Reconcile(ctx context.Context, userID string) error
}

// DefaultTokenService is the production implementation.
type DefaultTokenService struct {
	Repo tokenrecordRepo.Repository
	// Now is the clock; nil means time.Now. Tests pin it.
	Now func() time.Time
}

func (s *DefaultTokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
