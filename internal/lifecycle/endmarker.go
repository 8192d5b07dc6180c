package lifecycle

import (
	"time"

	"github.com/stlalpha/eventsd/internal/protocol"
	"github.com/stlalpha/eventsd/internal/store"
)

// EnsurePastEndMarker writes END <EID>.txt containing the event's own
// declared datetime if, and only if, the event is currently Past and no
// end-marker exists yet. It is idempotent and safe to call on every read;
// callers must hold the store gate.
//
// Pre-writing this marker is a throughput optimization, not a
// correctness requirement: Derive already classifies a marker-less event
// as Past whenever now > declared, so a reader never needs this write to
// have happened first.
func EnsurePastEndMarker(s *store.Store, eid string, declared time.Time, now time.Time) error {
	endPath := s.EndFile(eid)
	if store.FileExists(endPath) {
		return nil
	}
	if !now.After(declared) {
		return nil
	}
	return store.WriteLine(endPath, protocol.FormatDatetime(declared))
}

// CloseByOwner writes END <EID>.txt with the current wall-clock time,
// marking an Open event as closed by its owner rather than by time
// expiry. Callers must hold the store gate and must have already
// verified the event is Open and the caller is its owner.
func CloseByOwner(s *store.Store, eid string, now time.Time) error {
	return store.WriteLine(s.EndFile(eid), protocol.FormatDatetime(now))
}

// ReadEndMarker reads the end-marker file for eid, if present. ok is
// false only if the file is absent. A present marker whose content fails
// to parse as a datetime is reported with ok true and a zero time, which
// does not match a declared datetime, so Derive classifies the event as
// ClosedByUser.
func ReadEndMarker(s *store.Store, eid string) (t time.Time, ok bool) {
	line, err := store.ReadFirstLine(s.EndFile(eid))
	if err != nil {
		return time.Time{}, false
	}
	parsed, err := protocol.ParseDatetime(line)
	if err != nil {
		return time.Time{}, true
	}
	return parsed, true
}
