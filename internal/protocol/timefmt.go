package protocol

import "time"

// Go reference-time layouts for the three wire datetime formats.
const (
	DateLayout     = "02-01-2006"
	TimeLayout     = "15:04"
	DatetimeLayout = "02-01-2006 15:04:05"
)

// ParseDatetime parses the long-form "dd-mm-yyyy hh:mm:ss" wire format in
// the host's local time zone.
func ParseDatetime(s string) (time.Time, error) {
	return time.ParseInLocation(DatetimeLayout, s, time.Local)
}

// FormatDatetime renders t in the long-form wire format.
func FormatDatetime(t time.Time) string {
	return t.Format(DatetimeLayout)
}

// ParseDateTime parses a separate date token and time token into one
// instant, as used by CRE's "date time" fields.
func ParseDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.Local)
}

// SplitDateTime renders t back into separate date and time tokens.
func SplitDateTime(t time.Time) (date, clock string) {
	return t.Format(DateLayout), t.Format(TimeLayout)
}
