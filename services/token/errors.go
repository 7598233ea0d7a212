package token

import "fmt"

// InvalidEntryError indicates a submitted entry with an out-of-range
// digit or quantity.
type InvalidEntryError struct {
	Index  int
	Reason string
}

func (e InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid entry at index %d: %s", e.Index, e.Reason)
}
