package schedule

import (
	"fmt"
	"time"
)

// ResolveGaps lists every grid slot strictly after last up to and
// including the backfill target at now, in chronological order, walking
// each calendar day in between. If last's label is not on the grid the
// whole of last's day counts as missing. The result is empty when
// nothing has elapsed.
func ResolveGaps(last SlotID, now time.Time) ([]SlotID, error) {
	lastDate, err := time.Parse(DateLayout, last.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrUnresolvableGrid, last.Date)
	}
	nowDate := now.Format(DateLayout)
	if last.Date > nowDate {
		return nil, fmt.Errorf("%w: last slot %s is after %s", ErrUnresolvableGrid, last.String(), nowDate)
	}

	// An unknown label sits "before the grid", so its day is emitted in full.
	lastPos := PositionOf(last.Slot)
	target, targetOK := TargetIndex(now)

	grid := Grid()
	var gaps []SlotID
	for d := lastDate; ; d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		if date > nowDate {
			break
		}
		start, end := 0, len(grid)-1
		if date == last.Date {
			start = lastPos + 1
		}
		if date == nowDate {
			if !targetOK {
				continue
			}
			end = target
		}
		for i := start; i <= end; i++ {
			gaps = append(gaps, SlotID{Date: date, Slot: grid[i]})
		}
	}
	return gaps, nil
}
