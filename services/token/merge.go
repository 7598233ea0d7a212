package token

import "tally/models"

// MergeEntries combines newly submitted entries into an existing slot's
// entry list. An incoming entry is dropped when its timestamp matches
// any entry already merged, regardless of digit or quantity; the first
// entry seen with a timestamp wins. Existing order is preserved and
// survivors are appended in incoming order. Counts are refolded from
// the merged list rather than patched, so they can never drift from the
// entries. Neither input slice is mutated.
func MergeEntries(existing, incoming []models.TokenEntry) ([]models.TokenEntry, models.CountVector) {
	merged := make([]models.TokenEntry, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)

	seen := make(map[int64]struct{}, len(merged))
	for _, e := range merged {
		seen[e.Timestamp] = struct{}{}
	}
	for _, e := range incoming {
		if _, dup := seen[e.Timestamp]; dup {
			continue
		}
		seen[e.Timestamp] = struct{}{}
		merged = append(merged, e)
	}

	return merged, FoldCounts(merged)
}

// FoldCounts sums entry quantities by digit. Entries are validated at
// the boundary, so every number is 0-9 here.
func FoldCounts(entries []models.TokenEntry) models.CountVector {
	var counts models.CountVector
	for _, e := range entries {
		counts[e.Number] += e.Quantity
	}
	return counts
}
