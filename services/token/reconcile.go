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

// Reconcile creates a zero-valued record for every grid slot that
// elapsed since the user's latest record. Concurrent calls race on the
// store's unique (userId, timeSlotId) index; losing an insert means
// another reconciliation already wrote the slot, which is success.
func (s *DefaultTokenService) Reconcile(ctx context.Context, userID string) error {
	now := s.now()

	latest, err := s.Repo.FindLatest(ctx, userID)
	if err != nil && !errors.Is(err, tokenrecordRepo.ErrRecordNotFound) {
		return fmt.Errorf("reconcile: failed to fetch latest record: %w", err)
	}

	var gaps []schedule.SlotID
	if latest == nil || errors.Is(err, tokenrecordRepo.ErrRecordNotFound) {
		// Cold start: materialize today's grid up to the active slot.
		// Outside the operating window there is nothing to create yet.
		idx, ok := schedule.ActiveIndex(now)
		if !ok {
			return nil
		}
		date := now.Format(schedule.DateLayout)
		for i, label := range schedule.Grid() {
			if i > idx {
				break
			}
			gaps = append(gaps, schedule.SlotID{Date: date, Slot: label})
		}
	} else {
		// A label that fails to parse stays the zero SlotLabel, which
		// sits before the grid and makes the whole day eligible.
		label, parseErr := schedule.ParseSlotLabel(latest.TimeSlot)
		if parseErr != nil {
			utils.GetLogger().Warn("reconcile: latest record carries an off-grid slot label",
				zap.String("userID", userID), zap.String("timeSlot", latest.TimeSlot))
		}
		last := schedule.SlotID{Date: latest.Date, Slot: label}
		gaps, err = schedule.ResolveGaps(last, now)
		if err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
	}

	for _, gap := range gaps {
		record := models.TokenRecord{
			UserID:     userID,
			TimeSlotID: gap.String(),
			Date:       gap.Date,
			TimeSlot:   gap.Slot.String(),
			Entries:    []models.TokenEntry{},
			SavedAt:    now,
		}
		if _, err := s.Repo.Insert(ctx, record); err != nil {
			if errors.Is(err, tokenrecordRepo.ErrDuplicateRecord) {
				// Another caller won the race for this slot.
				utils.GetLogger().Debug("reconcile: slot already materialized",
					zap.String("userID", userID), zap.String("timeSlotId", gap.String()))
				continue
			}
			return fmt.Errorf("reconcile: failed to backfill slot %s: %w", gap.String(), err)
		}
	}
	return nil
}
