package token

import (
	"context"
	"errors"
	"fmt"

	tokenrecordRepo "tally/database/repository/tokenrecord"
	"tally/models"
	"tally/schedule"
	"tally/utils"

	"go.uber.org/zap"
)

// SubmitTokenData validates and stores one batch of entries for a slot.
// First submission for a slot inserts; later submissions merge. An
// insert lost to a concurrent reconciliation or submission falls back
// to the merge path against whatever record won.
func (s *DefaultTokenService) SubmitTokenData(ctx context.Context, userID string, slotID schedule.SlotID, entries []models.TokenEntry) (*SubmitResult, error) {
	if err := validateEntries(entries); err != nil {
		return nil, err
	}

	existing, err := s.Repo.FindBySlotID(ctx, userID, slotID.String())
	if err != nil && !errors.Is(err, tokenrecordRepo.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch record for slot %s: %w", slotID.String(), err)
	}

	if existing == nil {
		merged, counts := MergeEntries(nil, entries)
		record := models.TokenRecord{
			UserID:     userID,
			TimeSlotID: slotID.String(),
			Date:       slotID.Date,
			TimeSlot:   slotID.Slot.String(),
			Entries:    merged,
			Counts:     counts,
			SavedAt:    s.now(),
		}
		inserted, err := s.Repo.Insert(ctx, record)
		if err == nil {
			return &SubmitResult{Created: true, Record: inserted}, nil
		}
		if !errors.Is(err, tokenrecordRepo.ErrDuplicateRecord) {
			return nil, fmt.Errorf("failed to insert record for slot %s: %w", slotID.String(), err)
		}
		// Lost the insert race; merge into the record that got there first.
		existing, err = s.Repo.FindBySlotID(ctx, userID, slotID.String())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch record after insert race on slot %s: %w", slotID.String(), err)
		}
	}

	merged, counts := MergeEntries(existing.Entries, entries)
	updated, err := s.Repo.Update(ctx, existing.ID, merged, counts, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update record for slot %s: %w", slotID.String(), err)
	}
	return &SubmitResult{Created: false, Record: updated}, nil
}

// ListRecords runs reconciliation first so the listing always shows the
// grid materialized through the current slot. Reconciliation is best
// effort: a failing store degrades the read by omitting backfill, never
// by failing it.
func (s *DefaultTokenService) ListRecords(ctx context.Context, userID string, q tokenrecordRepo.ListQuery) (*tokenrecordRepo.Page, error) {
	if err := s.Reconcile(ctx, userID); err != nil {
		utils.GetLogger().Warn("reconciliation failed, serving records without backfill",
			zap.String("userID", userID), zap.Error(err))
	}
	return s.Repo.ListByUser(ctx, userID, q)
}

// GetRecord returns one record by its slot identifier.
func (s *DefaultTokenService) GetRecord(ctx context.Context, userID, timeSlotID string) (*models.TokenRecord, error) {
	if _, err := schedule.ParseSlotID(timeSlotID); err != nil {
		return nil, err
	}
	return s.Repo.FindBySlotID(ctx, userID, timeSlotID)
}

// DeleteRecord removes one record by its slot identifier.
func (s *DefaultTokenService) DeleteRecord(ctx context.Context, userID, timeSlotID string) error {
	if _, err := schedule.ParseSlotID(timeSlotID); err != nil {
		return err
	}
	return s.Repo.DeleteBySlotID(ctx, userID, timeSlotID)
}

// validateEntries rejects malformed entries at the boundary so digits
// outside 0-9 never reach the count fold.
func validateEntries(entries []models.TokenEntry) error {
	for i, e := range entries {
		if e.Number < 0 || e.Number > 9 {
			return InvalidEntryError{Index: i, Reason: fmt.Sprintf("number %d out of range 0-9", e.Number)}
		}
		if e.Quantity < 1 {
			return InvalidEntryError{Index: i, Reason: fmt.Sprintf("quantity %d must be at least 1", e.Quantity)}
		}
	}
	return nil
}
