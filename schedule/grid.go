package schedule

import "time"

// The operating day is partitioned into two contiguous stride intervals:
// 15-minute slots from 09:00 up to (not including) 11:00, then 20-minute
// slots from 11:00 through 21:40. The 11:00 boundary belongs to the
// second interval only, so it appears exactly once. Slots after 21:40
// run until the 22:00 day-end boundary.
const (
	openMinutes     = 9 * 60        // 09:00, first slot start
	morningEnd      = 11 * 60       // 11:00, stride changeover
	lastSlotMinutes = 21*60 + 40    // 21:40, final slot start
	dayEndMinutes   = 22 * 60       // 22:00, end of the final slot
	morningStride   = 15            // minutes
	afternoonStride = 20            // minutes
	morningSlots    = (morningEnd - openMinutes) / morningStride
)

// GridSize is the number of slots in one operating day.
const GridSize = morningSlots + (lastSlotMinutes-morningEnd)/afternoonStride + 1

// Grid returns the canonical ordered slot labels for one operating day.
// The grid is identical for every calendar day.
func Grid() []SlotLabel {
	grid := make([]SlotLabel, 0, GridSize)
	for m := openMinutes; m < morningEnd; m += morningStride {
		grid = append(grid, SlotLabel{Hour: m / 60, Minute: m % 60})
	}
	for m := morningEnd; m <= lastSlotMinutes; m += afternoonStride {
		grid = append(grid, SlotLabel{Hour: m / 60, Minute: m % 60})
	}
	return grid
}

// PositionOf returns the index of label in the canonical grid, or -1 if
// the label is not a grid slot.
func PositionOf(label SlotLabel) int {
	m := label.Minutes()
	switch {
	case m >= openMinutes && m < morningEnd:
		if (m-openMinutes)%morningStride != 0 {
			return -1
		}
		return (m - openMinutes) / morningStride
	case m >= morningEnd && m <= lastSlotMinutes:
		if (m-morningEnd)%afternoonStride != 0 {
			return -1
		}
		return morningSlots + (m-morningEnd)/afternoonStride
	default:
		return -1
	}
}

// ActiveIndex returns the index of the slot the clock is currently
// inside, using half-open [slot, next) intervals with the final slot
// ending at 22:00. Outside the 09:00-22:00 operating window there is no
// active slot.
func ActiveIndex(now time.Time) (int, bool) {
	m := now.Hour()*60 + now.Minute()
	if m < openMinutes || m >= dayEndMinutes {
		return 0, false
	}
	if m < morningEnd {
		return (m - openMinutes) / morningStride, true
	}
	// 21:40 through 21:59 lands on the final slot.
	return morningSlots + (m-morningEnd)/afternoonStride, true
}

// TargetIndex returns the backfill target for now: the last slot whose
// start is strictly before now. A slot starting exactly at now has not
// elapsed and is not yet a target. At or before 09:00 no slot of the
// day is eligible and ok is false; past 21:40 every slot has started
// and the target is the final one.
func TargetIndex(now time.Time) (int, bool) {
	m := now.Hour()*60 + now.Minute()
	if m <= openMinutes {
		return 0, false
	}
	if m > lastSlotMinutes {
		return GridSize - 1, true
	}
	if m <= morningEnd {
		return (m - 1 - openMinutes) / morningStride, true
	}
	return morningSlots + (m-1-morningEnd)/afternoonStride, true
}
