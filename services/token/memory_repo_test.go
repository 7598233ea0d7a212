package token_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	tokenrecordRepo "tally/database/repository/tokenrecord"
	"tally/models"
)

// memoryRepo is an in-memory tokenrecordRepo.Repository with the same
// uniqueness semantics as the mongo implementation: one record per
// (userID, timeSlotID), Insert surfacing ErrDuplicateRecord on a clash.
type memoryRepo struct {
	mu      sync.Mutex
	records map[string]map[string]*models.TokenRecord // userID -> timeSlotID -> record
	nextID  int

	// failOps makes every store operation fail, for degraded-store tests.
	failOps bool
	// insertHook runs inside the lock before each insert, for race simulation.
	insertHook func(userID string, record *models.TokenRecord)
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]map[string]*models.TokenRecord)}
}

var errStoreDown = fmt.Errorf("store unavailable")

func (m *memoryRepo) Insert(_ context.Context, record models.TokenRecord) (*models.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps {
		return nil, errStoreDown
	}
	if m.insertHook != nil {
		m.insertHook(record.UserID, &record)
	}

	bysSlot := m.records[record.UserID]
	if bysSlot == nil {
		bysSlot = make(map[string]*models.TokenRecord)
		m.records[record.UserID] = bysSlot
	}
	if _, exists := bysSlot[record.TimeSlotID]; exists {
		return nil, fmt.Errorf("%w: %s", tokenrecordRepo.ErrDuplicateRecord, record.TimeSlotID)
	}

	m.nextID++
	if record.ID == "" {
		record.ID = fmt.Sprintf("rec-%d", m.nextID)
	}
	if record.Entries == nil {
		record.Entries = []models.TokenEntry{}
	}
	stored := record
	bysSlot[record.TimeSlotID] = &stored
	return &record, nil
}

func (m *memoryRepo) Update(_ context.Context, recordID string, entries []models.TokenEntry, counts models.CountVector, savedAt time.Time) (*models.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps {
		return nil, errStoreDown
	}
	for _, bySlot := range m.records {
		for _, rec := range bySlot {
			if rec.ID == recordID {
				rec.Entries = append([]models.TokenEntry(nil), entries...)
				rec.Counts = counts
				rec.SavedAt = savedAt
				out := *rec
				return &out, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: id %s", tokenrecordRepo.ErrRecordNotFound, recordID)
}

func (m *memoryRepo) FindBySlotID(_ context.Context, userID, timeSlotID string) (*models.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps {
		return nil, errStoreDown
	}
	if rec, ok := m.records[userID][timeSlotID]; ok {
		out := *rec
		return &out, nil
	}
	return nil, fmt.Errorf("%w: %s", tokenrecordRepo.ErrRecordNotFound, timeSlotID)
}

func (m *memoryRepo) FindLatest(_ context.Context, userID string) (*models.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps {
		return nil, errStoreDown
	}
	var latest *models.TokenRecord
	for _, rec := range m.records[userID] {
		if latest == nil ||
			rec.Date > latest.Date ||
			(rec.Date == latest.Date && rec.TimeSlot > latest.TimeSlot) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: no records for user %s", tokenrecordRepo.ErrRecordNotFound, userID)
	}
	out := *latest
	return &out, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string, q tokenrecordRepo.ListQuery) (*tokenrecordRepo.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps {
		return nil, errStoreDown
	}

	var all []models.TokenRecord
	for _, rec := range m.records[userID] {
		if q.FromDate != "" && rec.Date < q.FromDate {
			continue
		}
		if q.ToDate != "" && rec.Date > q.ToDate {
			continue
		}
		if q.TimeSlot != "" && rec.TimeSlot != q.TimeSlot {
			continue
		}
		all = append(all, *rec)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date < all[j].Date
		}
		return all[i].TimeSlot < all[j].TimeSlot
	})

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 50
	}
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	return &tokenrecordRepo.Page{
		Records: all[start:end],
		Total:   int64(len(all)),
		Page:    page,
		Limit:   limit,
	}, nil
}

func (m *memoryRepo) DeleteBySlotID(_ context.Context, userID, timeSlotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOps {
		return errStoreDown
	}
	if _, ok := m.records[userID][timeSlotID]; !ok {
		return fmt.Errorf("%w: %s", tokenrecordRepo.ErrRecordNotFound, timeSlotID)
	}
	delete(m.records[userID], timeSlotID)
	return nil
}

// count returns the number of stored records for a user.
func (m *memoryRepo) count(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[userID])
}
