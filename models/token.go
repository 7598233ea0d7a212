package models

import "time"

// TokenEntry is one submitted count of a single digit. Timestamp is a
// caller-supplied integer (epoch millis or seconds) and acts as the
// de-duplication key within a slot.
type TokenEntry struct {
	Number    int   `bson:"number" json:"number"`       // digit 0-9
	Quantity  int   `bson:"quantity" json:"quantity"`   // >= 1
	Timestamp int64 `bson:"timestamp" json:"timestamp"` // dedup key, never interpreted
}

// CountVector aggregates entry quantities by digit. Index = digit.
type CountVector [10]int

// TokenRecord holds everything submitted for one user in one time slot.
// Identity is (userId, timeSlotId) and never changes after creation.
// Records with empty entries and an all-zero count vector were
// auto-created by reconciliation.
type TokenRecord struct {
	ID         string       `bson:"id" json:"id"`
	UserID     string       `bson:"userId" json:"userId"`
	TimeSlotID string       `bson:"timeSlotId" json:"timeSlotId"` // "YYYY-MM-DD_HH:MM"
	Date       string       `bson:"date" json:"date"`             // "YYYY-MM-DD"
	TimeSlot   string       `bson:"timeSlot" json:"timeSlot"`     // "HH:MM", zero-padded
	Entries    []TokenEntry `bson:"entries" json:"entries"`
	Counts     CountVector  `bson:"counts" json:"counts"`
	SavedAt    time.Time    `bson:"savedAt" json:"savedAt"`
}

// IsAutoCreated reports whether the record is a reconciliation placeholder.
func (r *TokenRecord) IsAutoCreated() bool {
	return len(r.Entries) == 0
}
