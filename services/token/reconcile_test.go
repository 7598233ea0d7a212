package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/models"
	"tally/services/token"
)

func newService(repo *memoryRepo, now time.Time) *token.DefaultTokenService {
	return &token.DefaultTokenService{
		Repo: repo,
		Now:  func() time.Time { return now },
	}
}

func clock(date string, hour, min int) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}

func TestReconcile_ColdStart_InsideWindow(t *testing.T) {
	// 09:07 is inside the first slot, so exactly one record appears.
	repo := newMemoryRepo()
	svc := newService(repo, clock("2025-01-02", 9, 7))

	require.NoError(t, svc.Reconcile(context.Background(), "u1"))

	require.Equal(t, 1, repo.count("u1"))
	rec, err := repo.FindBySlotID(context.Background(), "u1", "2025-01-02_09:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02", rec.Date)
	assert.Equal(t, "09:00", rec.TimeSlot)
	assert.Empty(t, rec.Entries)
	assert.Equal(t, models.CountVector{}, rec.Counts)
	assert.True(t, rec.IsAutoCreated())
}

func TestReconcile_ColdStart_BeforeWindow(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, clock("2025-01-02", 8, 30))

	require.NoError(t, svc.Reconcile(context.Background(), "u1"))
	assert.Equal(t, 0, repo.count("u1"))
}

func TestReconcile_ColdStart_AfterWindow(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, clock("2025-01-02", 22, 30))

	require.NoError(t, svc.Reconcile(context.Background(), "u1"))
	assert.Equal(t, 0, repo.count("u1"))
}

func TestReconcile_WarmPath_TwoDaySpan(t *testing.T) {
	repo := newMemoryRepo()
	seedRecord(t, repo, "u1", "2025-01-01", "21:40")

	svc := newService(repo, clock("2025-01-02", 9, 30))
	require.NoError(t, svc.Reconcile(context.Background(), "u1"))

	// Nothing left on Jan 1; on Jan 2 only the slots that started
	// strictly before 09:30 have elapsed.
	assert.Equal(t, 3, repo.count("u1"))
	for _, id := range []string{"2025-01-02_09:00", "2025-01-02_09:15"} {
		rec, err := repo.FindBySlotID(context.Background(), "u1", id)
		require.NoError(t, err, id)
		assert.True(t, rec.IsAutoCreated(), id)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	repo := newMemoryRepo()
	seedRecord(t, repo, "u1", "2025-01-02", "09:00")

	svc := newService(repo, clock("2025-01-02", 10, 20))
	require.NoError(t, svc.Reconcile(context.Background(), "u1"))
	after := repo.count("u1")

	require.NoError(t, svc.Reconcile(context.Background(), "u1"))
	assert.Equal(t, after, repo.count("u1"), "second reconcile changed store state")
}

func TestReconcile_DuplicateRace_IsSuccess(t *testing.T) {
	repo := newMemoryRepo()
	seedRecord(t, repo, "u1", "2025-01-02", "09:00")

	// Another reconciler wins every slot an instant before this one.
	repo.insertHook = func(userID string, rec *models.TokenRecord) {
		if rec.IsAutoCreated() {
			if _, taken := repo.records[userID][rec.TimeSlotID]; !taken {
				winner := *rec
				winner.ID = "winner-" + rec.TimeSlotID
				repo.records[userID][rec.TimeSlotID] = &winner
			}
		}
	}

	svc := newService(repo, clock("2025-01-02", 9, 40))
	require.NoError(t, svc.Reconcile(context.Background(), "u1"))

	// One record per slot, no error surfaced.
	assert.Equal(t, 3, repo.count("u1"))
}

func TestListRecords_SwallowsReconcileFailure(t *testing.T) {
	repo := newMemoryRepo()
	seedRecord(t, repo, "u1", "2025-01-02", "09:00")

	// FindLatest fails, so reconciliation fails; the listing must not.
	repo.failOps = true
	svc := newService(repo, clock("2025-01-02", 10, 0))

	_, err := svc.ListRecords(context.Background(), "u1", listAll())
	assert.Error(t, err, "listing itself fails when the store is down")

	// Store recovers between reconcile and list: reconciliation is best
	// effort, the read proceeds.
	repo.failOps = false
	page, err := svc.ListRecords(context.Background(), "u1", listAll())
	require.NoError(t, err)
	assert.NotEmpty(t, page.Records)
}
