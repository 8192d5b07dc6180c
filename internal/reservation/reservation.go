// Package reservation implements the admission pipeline that turns a
// (UID, pass, EID, seats) request into an accepted or rejected seat
// commitment.
package reservation

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/stlalpha/eventsd/internal/lifecycle"
	"github.com/stlalpha/eventsd/internal/protocol"
	"github.com/stlalpha/eventsd/internal/store"
	"github.com/stlalpha/eventsd/internal/userdb"
)

// Result is the status code returned by Reserve.
type Result string

const (
	ACC Result = "ACC"
	REJ Result = "REJ"
	CLS Result = "CLS"
	SLD Result = "SLD"
	PST Result = "PST"
	NLG Result = "NLG"
	WRP Result = "WRP"
	NOK Result = "NOK"
)

// Outcome carries a Result plus the one piece of auxiliary data a REJ
// response needs: the number of seats still available.
type Outcome struct {
	Result    Result
	Remaining int
}

// Reserve runs the full admission pipeline described in the reservation
// design: not-logged-in and wrong-password checks (deliberately
// conflating "unknown user" with "not logged in" to avoid existence
// disclosure), event lookup, lifecycle-derived rejections, capacity
// check, then an atomic commit under the gate.
func Reserve(s *store.Store, uid, pass, eid string, seats int) (Outcome, error) {
	if !userdb.IsLoggedIn(s, uid) {
		return Outcome{Result: NLG}, nil
	}
	if !userdb.CheckPassword(s, uid, pass) {
		return Outcome{Result: WRP}, nil
	}

	rec, ok := s.LoadEvent(eid)
	if !ok {
		return Outcome{Result: NOK}, nil
	}
	declared, err := protocol.ParseDateTime(rec.Date, rec.Time)
	if err != nil {
		return Outcome{Result: NOK}, nil
	}

	now := time.Now()
	endTime, endOK := lifecycle.ReadEndMarker(s, eid)
	state := lifecycle.Derive(declared, rec.Capacity, rec.Reserved, endTime, endOK, now)

	switch state {
	case lifecycle.Past:
		unlock, err := s.Lock()
		if err == nil {
			_ = lifecycle.EnsurePastEndMarker(s, eid, declared, now)
			unlock()
		}
		return Outcome{Result: PST}, nil
	case lifecycle.ClosedByUser:
		return Outcome{Result: CLS}, nil
	case lifecycle.SoldOut:
		return Outcome{Result: SLD}, nil
	}

	remaining := rec.Capacity - rec.Reserved
	if remaining <= 0 {
		return Outcome{Result: SLD}, nil
	}
	if seats > remaining {
		return Outcome{Result: REJ, Remaining: remaining}, nil
	}

	unlock, err := s.Lock()
	if err != nil {
		return Outcome{Result: NOK}, err
	}
	defer unlock()

	// Re-load under the gate: another worker may have committed between
	// our lock-free read above and acquiring the gate.
	rec, ok = s.LoadEvent(eid)
	if !ok {
		return Outcome{Result: NOK}, nil
	}
	remaining = rec.Capacity - rec.Reserved
	if remaining <= 0 {
		return Outcome{Result: SLD}, nil
	}
	if seats > remaining {
		return Outcome{Result: REJ, Remaining: remaining}, nil
	}

	if err := commit(s, uid, eid, seats, rec.Reserved, now); err != nil {
		return Outcome{Result: NOK}, err
	}
	return Outcome{Result: ACC}, nil
}

func commit(s *store.Store, uid, eid string, seats, currentReserved int, now time.Time) error {
	if err := store.WriteInt(s.ResFile(eid), currentReserved+seats); err != nil {
		return err
	}

	name := recordFilename(uid, now)
	line := fmt.Sprintf("%s %d %s", uid, seats, protocol.FormatDatetime(now))

	if err := store.WriteLine(filepath.Join(s.ReservationsDir(eid), name), line); err != nil {
		return err
	}
	if err := store.WriteLine(filepath.Join(s.ReservedDir(uid), name), line); err != nil {
		return err
	}
	return nil
}

// recordFilename builds "R-<UID>-<YYYY>-<MM>-<DD> <HHMMSS>.txt" from the
// commit instant.
func recordFilename(uid string, at time.Time) string {
	return fmt.Sprintf("R-%s-%04d-%02d-%02d %02d%02d%02d.txt",
		uid, at.Year(), at.Month(), at.Day(), at.Hour(), at.Minute(), at.Second())
}
