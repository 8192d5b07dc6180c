package store

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// EventRecord is the parsed content of an event's "START <EID>.txt" plus
// its current reserved counter. It carries no lifecycle judgment: that is
// layered on top by the lifecycle package.
type EventRecord struct {
	EID      string
	OwnerUID string
	Name     string
	DescFile string
	Capacity int
	Date     string // dd-mm-yyyy
	Time     string // hh:mm
	Reserved int
}

// EventsRoot returns the EVENTS/ directory path.
func (s *Store) EventsRoot() string { return s.eventsRoot() }

// LoadEvent reads and parses the event identified by eid. ok is false if
// the event directory, its START file, or its RES file is missing or
// malformed.
func (s *Store) LoadEvent(eid string) (rec EventRecord, ok bool) {
	line, err := ReadFirstLine(s.StartFile(eid))
	if err != nil {
		return EventRecord{}, false
	}
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return EventRecord{}, false
	}
	capacity, err := strconv.Atoi(fields[3])
	if err != nil {
		return EventRecord{}, false
	}
	reserved, err := ReadInt(s.ResFile(eid))
	if err != nil {
		return EventRecord{}, false
	}
	return EventRecord{
		EID:      eid,
		OwnerUID: fields[0],
		Name:     fields[1],
		DescFile: fields[2],
		Capacity: capacity,
		Date:     fields[4],
		Time:     fields[5],
		Reserved: reserved,
	}, true
}

// LoadAllEvents returns every allocated event, sorted ascending by EID.
func (s *Store) LoadAllEvents() []EventRecord {
	entries, err := os.ReadDir(s.eventsRoot())
	if err != nil {
		return nil
	}
	eids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && len(e.Name()) == 3 {
			eids = append(eids, e.Name())
		}
	}
	sort.Strings(eids)

	out := make([]EventRecord, 0, len(eids))
	for _, eid := range eids {
		if rec, ok := s.LoadEvent(eid); ok {
			out = append(out, rec)
		}
	}
	return out
}

// CreateEvent writes the START and RES files for a newly allocated EID.
// The caller must hold the gate and must have already allocated eid via
// AllocateEID.
func (s *Store) CreateEvent(eid, ownerUID, name, descFile string, capacity int, date, clock string) error {
	line := fmt.Sprintf("%s %s %s %d %s %s", ownerUID, name, descFile, capacity, date, clock)
	if err := WriteLine(s.StartFile(eid), line); err != nil {
		return err
	}
	return WriteInt(s.ResFile(eid), 0)
}

// ListCreated returns the EIDs of every event uid owns, sorted ascending.
// It returns an empty slice both when CREATED/ is absent and when it is
// present but empty; callers must not distinguish the two.
func (s *Store) ListCreated(uid string) []string {
	entries, err := os.ReadDir(s.CreatedDir(uid))
	if err != nil {
		return nil
	}
	var eids []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && len(name) == 7 && strings.HasSuffix(name, ".txt") {
			eids = append(eids, strings.TrimSuffix(name, ".txt"))
		}
	}
	sort.Strings(eids)
	return eids
}
