// Package store implements the on-disk layout and atomic primitives that
// back every other component: the per-user and per-event directory trees,
// the global advisory lock, and EID allocation.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store roots a filesystem tree at Root, structured as:
//
//	USERS/<UID>/<UID>pass.txt
//	USERS/<UID>/<UID>login.txt
//	USERS/<UID>/CREATED/<EID>.txt
//	USERS/<UID>/RESERVED/<reservation-filename>
//	EVENTS/<EID>/START <EID>.txt
//	EVENTS/<EID>/RES <EID>.txt
//	EVENTS/<EID>/END <EID>.txt
//	EVENTS/<EID>/DESCRIPTION/<fname>
//	EVENTS/<EID>/RESERVATIONS/<reservation-filename>
//	EVENTS/.lock
type Store struct {
	Root string
	gate *Gate
}

// New returns a Store rooted at root. It does not create the root
// directory; callers are expected to have validated the directory exists
// (or to create it themselves) before serving requests.
func New(root string) *Store {
	return &Store{Root: root, gate: newGate(filepath.Join(root, "EVENTS", ".lock"))}
}

func (s *Store) usersRoot() string  { return filepath.Join(s.Root, "USERS") }
func (s *Store) eventsRoot() string { return filepath.Join(s.Root, "EVENTS") }

// UserDir returns the per-user directory for uid.
func (s *Store) UserDir(uid string) string { return filepath.Join(s.usersRoot(), uid) }

// PassFile returns the credential file path for uid.
func (s *Store) PassFile(uid string) string {
	return filepath.Join(s.UserDir(uid), uid+"pass.txt")
}

// LoginFile returns the login-marker file path for uid.
func (s *Store) LoginFile(uid string) string {
	return filepath.Join(s.UserDir(uid), uid+"login.txt")
}

// CreatedDir returns the directory holding markers for events uid owns.
func (s *Store) CreatedDir(uid string) string {
	return filepath.Join(s.UserDir(uid), "CREATED")
}

// CreatedMarker returns the marker file path for an event eid owned by uid.
func (s *Store) CreatedMarker(uid, eid string) string {
	return filepath.Join(s.CreatedDir(uid), eid+".txt")
}

// ReservedDir returns the directory holding uid's copies of its
// reservation records.
func (s *Store) ReservedDir(uid string) string {
	return filepath.Join(s.UserDir(uid), "RESERVED")
}

// EventDir returns the per-event directory for eid.
func (s *Store) EventDir(eid string) string { return filepath.Join(s.eventsRoot(), eid) }

// StartFile returns the event's declaration file path.
func (s *Store) StartFile(eid string) string {
	return filepath.Join(s.EventDir(eid), fmt.Sprintf("START %s.txt", eid))
}

// ResFile returns the event's reserved-seat-counter file path.
func (s *Store) ResFile(eid string) string {
	return filepath.Join(s.EventDir(eid), fmt.Sprintf("RES %s.txt", eid))
}

// EndFile returns the event's optional end-marker file path.
func (s *Store) EndFile(eid string) string {
	return filepath.Join(s.EventDir(eid), fmt.Sprintf("END %s.txt", eid))
}

// DescriptionDir returns the directory holding the event's description blob.
func (s *Store) DescriptionDir(eid string) string {
	return filepath.Join(s.EventDir(eid), "DESCRIPTION")
}

// DescriptionFile returns the description blob path for eid/fname.
func (s *Store) DescriptionFile(eid, fname string) string {
	return filepath.Join(s.DescriptionDir(eid), fname)
}

// ReservationsDir returns the directory holding per-event reservation
// records.
func (s *Store) ReservationsDir(eid string) string {
	return filepath.Join(s.EventDir(eid), "RESERVATIONS")
}

// EnsureUsersRoot makes sure USERS/ exists.
func (s *Store) EnsureUsersRoot() error {
	return os.MkdirAll(s.usersRoot(), 0o750)
}

// EnsureEventsRoot makes sure EVENTS/ exists.
func (s *Store) EnsureEventsRoot() error {
	return os.MkdirAll(s.eventsRoot(), 0o750)
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// DirExists reports whether path names a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
