package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/schedule"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.January, 2, hour, min, 0, 0, time.UTC)
}

func label(hour, min int) schedule.SlotLabel {
	return schedule.SlotLabel{Hour: hour, Minute: min}
}

func TestGrid_Deterministic(t *testing.T) {
	first := schedule.Grid()
	second := schedule.Grid()
	assert.Equal(t, first, second)
	assert.Len(t, first, schedule.GridSize)
}

func TestGrid_Shape(t *testing.T) {
	grid := schedule.Grid()

	// Morning interval: 15-minute stride from 09:00 up to 11:00.
	morning := []schedule.SlotLabel{
		label(9, 0), label(9, 15), label(9, 30), label(9, 45),
		label(10, 0), label(10, 15), label(10, 30), label(10, 45),
	}
	require.True(t, len(grid) > len(morning))
	assert.Equal(t, morning, grid[:len(morning)])

	// The 11:00 changeover boundary appears exactly once.
	count := 0
	for _, l := range grid {
		if l == label(11, 0) {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, label(11, 0), grid[8])

	// Afternoon interval runs on a 20-minute stride and stops at 21:40.
	assert.Equal(t, label(21, 20), grid[len(grid)-2])
	assert.Equal(t, label(21, 40), grid[len(grid)-1])

	// Strictly increasing, nothing outside the operating window.
	for i := 1; i < len(grid); i++ {
		assert.True(t, grid[i-1].Before(grid[i]), "grid not increasing at %d", i)
	}
	assert.False(t, grid[0].Before(label(9, 0)))
}

func TestPositionOf(t *testing.T) {
	tests := []struct {
		label schedule.SlotLabel
		want  int
	}{
		{label(9, 0), 0},
		{label(10, 45), 7},
		{label(11, 0), 8},
		{label(11, 20), 9},
		{label(21, 40), schedule.GridSize - 1},
		{label(8, 45), -1},  // before opening
		{label(22, 0), -1},  // after the last slot
		{label(9, 10), -1},  // off-stride in the morning
		{label(11, 10), -1}, // off-stride in the afternoon
		{label(10, 50), -1}, // 20-minute stride does not start until 11:00
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, schedule.PositionOf(tt.label), "PositionOf(%s)", tt.label)
	}
}

func TestActiveIndex_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
		ok   bool
	}{
		{"before opening", at(8, 59), 0, false},
		{"exactly at opening", at(9, 0), 0, true},
		{"inside first slot", at(9, 7), 0, true},
		{"exactly at second slot start", at(9, 15), 1, true},
		{"last morning slot", at(10, 59), 7, true},
		{"changeover instant", at(11, 0), 8, true},
		{"inside afternoon slot", at(12, 30), 12, true},
		{"final slot start", at(21, 40), schedule.GridSize - 1, true},
		{"inside final slot", at(21, 59), schedule.GridSize - 1, true},
		{"day end", at(22, 0), 0, false},
		{"late evening", at(23, 30), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := schedule.ActiveIndex(tt.now)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, idx)
			}
		})
	}
}

func TestTargetIndex(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
		ok   bool
	}{
		{"before opening", at(8, 30), 0, false},
		// A slot starting exactly now has not elapsed yet.
		{"exactly at opening", at(9, 0), 0, false},
		{"mid first slot", at(9, 7), 0, true},
		{"exactly at second slot start", at(9, 15), 0, true},
		{"just past second slot start", at(9, 16), 1, true},
		{"changeover instant", at(11, 0), 7, true},
		{"just past changeover", at(11, 1), 8, true},
		{"final slot start", at(21, 40), schedule.GridSize - 2, true},
		{"inside final slot", at(21, 41), schedule.GridSize - 1, true},
		{"day end", at(22, 0), schedule.GridSize - 1, true},
		{"late evening", at(23, 59), schedule.GridSize - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := schedule.TargetIndex(tt.now)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, idx)
			}
		})
	}
}

func TestParseSlotLabel(t *testing.T) {
	l, err := schedule.ParseSlotLabel("09:15")
	require.NoError(t, err)
	assert.Equal(t, label(9, 15), l)

	for _, bad := range []string{"9:15", "09:16", "24:00", "nope", "", "08:45", "09:155"} {
		_, err := schedule.ParseSlotLabel(bad)
		assert.ErrorIs(t, err, schedule.ErrInvalidSlotLabel, "label %q", bad)
	}
}

func TestSlotID_Encoding(t *testing.T) {
	id := schedule.SlotID{Date: "2025-01-02", Slot: label(9, 15)}
	assert.Equal(t, "2025-01-02_09:15", id.String())

	parsed, err := schedule.ParseSlotID("2025-01-02_09:15")
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = schedule.ParseSlotID("2025-01-02T09:15")
	assert.ErrorIs(t, err, schedule.ErrUnresolvableGrid)

	_, err = schedule.ParseSlotID("2025-13-40_09:15")
	assert.ErrorIs(t, err, schedule.ErrUnresolvableGrid)

	_, err = schedule.ParseSlotID("2025-01-02_09:10")
	assert.ErrorIs(t, err, schedule.ErrInvalidSlotLabel)
}

func TestSlotLabel_OrderIsChronological(t *testing.T) {
	// The explicit order must agree with the zero-padded string order
	// the store sorts by.
	grid := schedule.Grid()
	for i := 1; i < len(grid); i++ {
		assert.True(t, grid[i-1].String() < grid[i].String(),
			"string order diverges from chronological order at %s", grid[i])
	}
}
