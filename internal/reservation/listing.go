package reservation

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/stlalpha/eventsd/internal/protocol"
	"github.com/stlalpha/eventsd/internal/store"
)

// Entry is one reservation as seen from a user's own history (LMR).
type Entry struct {
	EID      string
	Seats    int
	At       string // "dd-mm-yyyy hh:mm:ss"
}

const maxListed = 50

// ListForUser returns uid's most recent reservations, across all events,
// most recent first, capped at 50 entries.
func ListForUser(s *store.Store, uid string) []Entry {
	names, err := os.ReadDir(s.ReservedDir(uid))
	if err != nil {
		return nil
	}

	entries := make([]Entry, 0, len(names))
	for _, n := range names {
		if n.IsDir() {
			continue
		}
		path := filepath.Join(s.ReservedDir(uid), n.Name())
		line, err := store.ReadFirstLine(path)
		if err != nil {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		recUID := fields[0]
		seats, err := strconv.Atoi(fields[1])
		if err != nil || recUID != uid {
			continue
		}
		datetime := strings.Join(fields[2:], " ")
		eid := findEventForResFile(s, n.Name())
		if eid == "" {
			continue
		}
		entries = append(entries, Entry{EID: eid, Seats: seats, At: datetime})
	}

	sort.Slice(entries, func(i, j int) bool {
		ti, erri := protocol.ParseDatetime(entries[i].At)
		tj, errj := protocol.ParseDatetime(entries[j].At)
		if erri != nil || errj != nil {
			return entries[i].At > entries[j].At
		}
		return ti.After(tj)
	})
	if len(entries) > maxListed {
		entries = entries[:maxListed]
	}
	return entries
}

// findEventForResFile scans EVENTS/*/RESERVATIONS for a file named
// resFileName and returns the owning EID, or "" if no event holds it.
func findEventForResFile(s *store.Store, resFileName string) string {
	events, err := os.ReadDir(s.EventsRoot())
	if err != nil {
		return ""
	}
	for _, e := range events {
		if !e.IsDir() {
			continue
		}
		eid := e.Name()
		if store.FileExists(filepath.Join(s.ReservationsDir(eid), resFileName)) {
			return eid
		}
	}
	return ""
}
