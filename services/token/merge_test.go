package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/models"
	"tally/services/token"
)

func TestMergeEntries_NoExisting(t *testing.T) {
	entries, counts := token.MergeEntries(nil, []models.TokenEntry{
		entry(3, 2, 100),
		entry(3, 1, 200),
		entry(0, 5, 300),
	})

	assert.Equal(t, []models.TokenEntry{entry(3, 2, 100), entry(3, 1, 200), entry(0, 5, 300)}, entries)
	assert.Equal(t, models.CountVector{5, 0, 0, 3, 0, 0, 0, 0, 0, 0}, counts)
}

func TestMergeEntries_DropsTimestampDuplicates(t *testing.T) {
	existing := []models.TokenEntry{entry(1, 2, 100)}
	incoming := []models.TokenEntry{entry(1, 2, 100), entry(3, 1, 200)}

	entries, counts := token.MergeEntries(existing, incoming)

	assert.Equal(t, []models.TokenEntry{entry(1, 2, 100), entry(3, 1, 200)}, entries)
	assert.Equal(t, models.CountVector{0, 2, 0, 1, 0, 0, 0, 0, 0, 0}, counts)
}

func TestMergeEntries_TimestampOnlyDedup(t *testing.T) {
	// Same timestamp with a different digit is still a duplicate; the
	// entry already present wins.
	existing := []models.TokenEntry{entry(1, 2, 100)}
	incoming := []models.TokenEntry{entry(9, 7, 100)}

	entries, counts := token.MergeEntries(existing, incoming)

	assert.Equal(t, []models.TokenEntry{entry(1, 2, 100)}, entries)
	assert.Equal(t, models.CountVector{0, 2, 0, 0, 0, 0, 0, 0, 0, 0}, counts)
}

func TestMergeEntries_FirstIncomingWinsWithinBatch(t *testing.T) {
	entries, counts := token.MergeEntries(nil, []models.TokenEntry{
		entry(2, 1, 100),
		entry(8, 4, 100), // same timestamp, later in the batch
	})

	assert.Equal(t, []models.TokenEntry{entry(2, 1, 100)}, entries)
	assert.Equal(t, models.CountVector{0, 0, 1, 0, 0, 0, 0, 0, 0, 0}, counts)
}

func TestMergeEntries_PreservesOrder(t *testing.T) {
	existing := []models.TokenEntry{entry(5, 1, 300), entry(4, 1, 100)}
	incoming := []models.TokenEntry{entry(6, 1, 400), entry(7, 1, 50)}

	entries, _ := token.MergeEntries(existing, incoming)

	// Existing order untouched, survivors appended in incoming order.
	assert.Equal(t, []models.TokenEntry{
		entry(5, 1, 300), entry(4, 1, 100), entry(6, 1, 400), entry(7, 1, 50),
	}, entries)
}

func TestMergeEntries_DoesNotMutateInputs(t *testing.T) {
	existing := []models.TokenEntry{entry(1, 1, 100)}
	incoming := []models.TokenEntry{entry(2, 2, 200)}

	merged, _ := token.MergeEntries(existing, incoming)
	require.Len(t, merged, 2)
	merged[0] = entry(9, 9, 999)

	assert.Equal(t, []models.TokenEntry{entry(1, 1, 100)}, existing)
	assert.Equal(t, []models.TokenEntry{entry(2, 2, 200)}, incoming)
}

func TestFoldCounts_MatchesEntries(t *testing.T) {
	entries := []models.TokenEntry{
		entry(0, 1, 1), entry(0, 2, 2), entry(9, 3, 3), entry(5, 10, 4),
	}
	counts := token.FoldCounts(entries)
	assert.Equal(t, models.CountVector{3, 0, 0, 0, 0, 10, 0, 0, 0, 3}, counts)

	assert.Equal(t, models.CountVector{}, token.FoldCounts(nil))
}
