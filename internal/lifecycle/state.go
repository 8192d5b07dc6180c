// Package lifecycle derives an event's state purely from store contents
// and the current time; nothing is cached.
package lifecycle

import "time"

// State is one of the four states an event can be in, encoded on the wire
// as the integers below.
type State int

const (
	Past         State = 0
	Open         State = 1
	SoldOut      State = 2
	ClosedByUser State = 3
)

func (s State) String() string {
	switch s {
	case Past:
		return "Past"
	case Open:
		return "Open"
	case SoldOut:
		return "SoldOut"
	case ClosedByUser:
		return "ClosedByUser"
	default:
		return "Unknown"
	}
}

// Wire returns the integer the protocol encodes this state as.
func (s State) Wire() int { return int(s) }

// Derive computes an event's lifecycle state from its declared datetime,
// capacity, reserved count, and optional end-marker datetime (endOK is
// false when no end-marker file exists; a marker that exists but failed
// to parse is passed with endOK true and a zero endDatetime).
func Derive(declared time.Time, capacity, reserved int, endDatetime time.Time, endOK bool, now time.Time) State {
	if endOK {
		if endDatetime.Equal(declared) {
			return Past
		}
		return ClosedByUser
	}
	if now.After(declared) {
		return Past
	}
	if capacity > 0 && reserved >= capacity {
		return SoldOut
	}
	return Open
}
