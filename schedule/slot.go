package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSlotLabel reports a label outside the canonical grid.
	ErrInvalidSlotLabel = errors.New("invalid time slot label")
	// ErrUnresolvableGrid reports a date/time that cannot be mapped onto the grid.
	ErrUnresolvableGrid = errors.New("unresolvable slot grid reference")
)

// DateLayout is the calendar-date encoding used in slot identifiers.
const DateLayout = "2006-01-02"

// SlotLabel is a time-of-day bucket from the canonical daily grid.
// Ordering is explicit on (hour, minute) rather than relying on the
// lexical order of the zero-padded string form.
type SlotLabel struct {
	Hour   int
	Minute int
}

// Minutes returns the label as minutes since midnight.
func (l SlotLabel) Minutes() int {
	return l.Hour*60 + l.Minute
}

// Before reports whether l starts earlier in the day than other.
func (l SlotLabel) Before(other SlotLabel) bool {
	return l.Minutes() < other.Minutes()
}

// String renders the zero-padded "HH:MM" form.
func (l SlotLabel) String() string {
	return fmt.Sprintf("%02d:%02d", l.Hour, l.Minute)
}

// ParseSlotLabel parses "HH:MM" and verifies membership in the canonical
// grid. Labels that parse but fall between grid slots are invalid.
func ParseSlotLabel(s string) (SlotLabel, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil || len(s) != 5 || s[2] != ':' {
		return SlotLabel{}, fmt.Errorf("%w: %q", ErrInvalidSlotLabel, s)
	}
	label := SlotLabel{Hour: h, Minute: m}
	if PositionOf(label) < 0 {
		return SlotLabel{}, fmt.Errorf("%w: %q is not a grid slot", ErrInvalidSlotLabel, s)
	}
	return label, nil
}

// SlotID identifies one slot on one calendar day. Unique per user.
type SlotID struct {
	Date string // "YYYY-MM-DD"
	Slot SlotLabel
}

// String renders the external "YYYY-MM-DD_HH:MM" encoding.
func (id SlotID) String() string {
	return id.Date + "_" + id.Slot.String()
}

// ParseSlotID parses the external "YYYY-MM-DD_HH:MM" encoding, validating
// both halves.
func ParseSlotID(s string) (SlotID, error) {
	if len(s) != 16 || s[10] != '_' {
		return SlotID{}, fmt.Errorf("%w: %q", ErrUnresolvableGrid, s)
	}
	date, labelStr := s[:10], s[11:]
	if _, err := time.Parse(DateLayout, date); err != nil {
		return SlotID{}, fmt.Errorf("%w: bad date in %q", ErrUnresolvableGrid, s)
	}
	label, err := ParseSlotLabel(labelStr)
	if err != nil {
		return SlotID{}, err
	}
	return SlotID{Date: date, Slot: label}, nil
}
