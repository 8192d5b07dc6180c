// Package protocol implements the Event Server wire protocol: field
// validators, the token reader shared by both transports, and the fixed
// vocabulary of request tags, response tags and status codes.
package protocol

import "strings"

// Field length and range limits, mirrored from the original assignment's
// protocol.h constants.
const (
	UIDLen           = 6
	PasswordLen      = 8
	EventNameMaxLen  = 10
	FnameMaxLen      = 24
	MinAttendance    = 10
	MaxAttendance    = 999
	MaxReservePeople = 999
	MaxFileSizeBytes = 10_000_000
)

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool {
	return isDigit(b) || isAlpha(b)
}

// ValidUID reports whether s is exactly UIDLen decimal digits.
func ValidUID(s string) bool {
	if len(s) != UIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// ValidPassword reports whether s is exactly PasswordLen alphanumeric
// characters.
func ValidPassword(s string) bool {
	if len(s) != PasswordLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	return true
}

// ValidEID reports whether s is exactly 3 decimal digits.
func ValidEID(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// ValidEventName reports whether s is 1-10 alphanumeric characters.
func ValidEventName(s string) bool {
	if len(s) < 1 || len(s) > EventNameMaxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	return true
}

// ValidFname reports whether s is 1-24 characters from [A-Za-z0-9._-],
// ending in a '.' followed by exactly three alphabetic characters.
func ValidFname(s string) bool {
	if len(s) < 1 || len(s) > FnameMaxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !isAlnum(b) && b != '.' && b != '_' && b != '-' {
			return false
		}
	}
	if len(s) < 4 {
		return false
	}
	dot := s[len(s)-4]
	ext := s[len(s)-3:]
	if dot != '.' {
		return false
	}
	for i := 0; i < len(ext); i++ {
		if !isAlpha(ext[i]) {
			return false
		}
	}
	return true
}

// ValidCapacity reports whether n is within [MinAttendance, MaxAttendance].
func ValidCapacity(n int) bool {
	return n >= MinAttendance && n <= MaxAttendance
}

// ValidSeats reports whether n is within [1, MaxReservePeople].
func ValidSeats(n int) bool {
	return n >= 1 && n <= MaxReservePeople
}

// ValidFsize reports whether n is within [0, MaxFileSizeBytes].
func ValidFsize(n int) bool {
	return n >= 0 && n <= MaxFileSizeBytes
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || !isDigit(s[0]) || !isDigit(s[1]) {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

func fourDigits(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
	}
	v := 0
	for i := 0; i < 4; i++ {
		v = v*10 + int(s[i]-'0')
	}
	return v, true
}

// ValidDate reports whether s has the form dd-mm-yyyy with a plausible
// (not necessarily calendar-correct beyond simple range checks) date.
func ValidDate(s string) bool {
	d, m, y, ok := splitDate(s)
	if !ok {
		return false
	}
	return d >= 1 && d <= 31 && m >= 1 && m <= 12 && y >= 1
}

func splitDate(s string) (day, month, year int, ok bool) {
	if len(s) != 10 || s[2] != '-' || s[5] != '-' {
		return 0, 0, 0, false
	}
	d, ok1 := twoDigits(s[0:2])
	m, ok2 := twoDigits(s[3:5])
	y, ok3 := fourDigits(s[6:10])
	if !ok1 || !ok2 || !ok3 {
		return 0, 0, 0, false
	}
	return d, m, y, true
}

// ValidTime reports whether s has the form hh:mm.
func ValidTime(s string) bool {
	h, mnt, ok := splitTime(s)
	if !ok {
		return false
	}
	return h >= 0 && h <= 23 && mnt >= 0 && mnt <= 59
}

func splitTime(s string) (hour, minute int, ok bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	h, ok1 := twoDigits(s[0:2])
	m, ok2 := twoDigits(s[3:5])
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return h, m, true
}

// ValidDatetime reports whether s has the form "dd-mm-yyyy hh:mm:ss".
func ValidDatetime(s string) bool {
	parts := strings.SplitN(s, " ", 2)
	if len(parts) != 2 {
		return false
	}
	if !ValidDate(parts[0]) {
		return false
	}
	t := parts[1]
	if len(t) != 8 || t[2] != ':' || t[5] != ':' {
		return false
	}
	h, ok1 := twoDigits(t[0:2])
	m, ok2 := twoDigits(t[3:5])
	sec, ok3 := twoDigits(t[6:8])
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	return h <= 23 && m <= 59 && sec <= 59
}
