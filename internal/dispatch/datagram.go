// Package dispatch implements the Dispatch component: command routing,
// per-command argument binding against Validators, and response
// formatting for both the datagram and stream command sets.
package dispatch

import (
	"strconv"
	"strings"
	"time"

	"github.com/stlalpha/eventsd/internal/elog"
	"github.com/stlalpha/eventsd/internal/lifecycle"
	"github.com/stlalpha/eventsd/internal/protocol"
	"github.com/stlalpha/eventsd/internal/reservation"
	"github.com/stlalpha/eventsd/internal/store"
	"github.com/stlalpha/eventsd/internal/userdb"
)

const noUID = "------"

// HandleDatagram parses and dispatches one complete datagram request line
// (already stripped of its trailing newline) and returns the response
// line to send back, without a trailing newline.
func HandleDatagram(s *store.Store, log elog.Logger, peerAddr, line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return protocol.StatusERR
	}
	tag := fields[0]
	args := fields[1:]

	switch tag {
	case protocol.TagLIN:
		return dispatchLogin(s, log, peerAddr, args)
	case protocol.TagLOU:
		return dispatchLogout(s, log, peerAddr, args)
	case protocol.TagUNR:
		return dispatchUnregister(s, log, peerAddr, args)
	case protocol.TagLME:
		return dispatchListMyEvents(s, log, peerAddr, args)
	case protocol.TagLMR:
		return dispatchListMyReservations(s, log, peerAddr, args)
	default:
		return protocol.StatusERR
	}
}

func dispatchLogin(s *store.Store, log elog.Logger, peerAddr string, args []string) string {
	if len(args) != 2 || !protocol.ValidUID(args[0]) || !protocol.ValidPassword(args[1]) {
		return protocol.TagRLI + " " + protocol.StatusERR
	}
	uid, pass := args[0], args[1]
	log.Request(protocol.TagLIN, uid, peerAddr)

	res, err := userdb.Login(s, uid, pass)
	if err != nil {
		return protocol.TagRLI + " " + protocol.StatusERR
	}
	return protocol.TagRLI + " " + string(res)
}

func dispatchLogout(s *store.Store, log elog.Logger, peerAddr string, args []string) string {
	if len(args) != 2 || !protocol.ValidUID(args[0]) || !protocol.ValidPassword(args[1]) {
		return protocol.TagRLO + " " + protocol.StatusERR
	}
	uid, pass := args[0], args[1]
	log.Request(protocol.TagLOU, uid, peerAddr)

	res, err := userdb.Logout(s, uid, pass)
	if err != nil {
		return protocol.TagRLO + " " + protocol.StatusERR
	}
	return protocol.TagRLO + " " + string(res)
}

func dispatchUnregister(s *store.Store, log elog.Logger, peerAddr string, args []string) string {
	if len(args) != 2 || !protocol.ValidUID(args[0]) || !protocol.ValidPassword(args[1]) {
		return protocol.TagRUR + " " + protocol.StatusERR
	}
	uid, pass := args[0], args[1]
	log.Request(protocol.TagUNR, uid, peerAddr)

	res, err := userdb.Unregister(s, uid, pass)
	if err != nil {
		return protocol.TagRUR + " " + protocol.StatusERR
	}
	return protocol.TagRUR + " " + string(res)
}

// authenticate runs the NOK/WRP/NLG checks shared by LME and LMR: an
// unknown user is NOK, an existing user with the wrong password is WRP,
// and an existing, correctly-authenticated but logged-out user is NLG.
// This is a distinct precedence from the one Reservations uses, which
// conflates unknown-user with logged-out.
func authenticate(s *store.Store, uid, pass string) (ok bool, status string) {
	if !userdb.Exists(s, uid) {
		return false, protocol.StatusNOK
	}
	if !userdb.CheckPassword(s, uid, pass) {
		return false, protocol.StatusWRP
	}
	if !userdb.IsLoggedIn(s, uid) {
		return false, protocol.StatusNLG
	}
	return true, ""
}

func dispatchListMyEvents(s *store.Store, log elog.Logger, peerAddr string, args []string) string {
	if len(args) != 2 || !protocol.ValidUID(args[0]) || !protocol.ValidPassword(args[1]) {
		return protocol.TagRME + " " + protocol.StatusERR
	}
	uid, pass := args[0], args[1]
	log.Request(protocol.TagLME, uid, peerAddr)

	if ok, status := authenticate(s, uid, pass); !ok {
		return protocol.TagRME + " " + status
	}

	eids := s.ListCreated(uid)
	if len(eids) == 0 {
		return protocol.TagRME + " " + protocol.StatusNOK
	}

	now := time.Now()
	parts := make([]string, 0, len(eids)*2+1)
	parts = append(parts, protocol.TagRME, protocol.StatusOK)
	for _, eid := range eids {
		state, ok := eventState(s, eid, now)
		if !ok {
			continue
		}
		parts = append(parts, eid, itoa(state.Wire()))
	}
	return strings.Join(parts, " ")
}

func dispatchListMyReservations(s *store.Store, log elog.Logger, peerAddr string, args []string) string {
	if len(args) != 2 || !protocol.ValidUID(args[0]) || !protocol.ValidPassword(args[1]) {
		return protocol.TagRMR + " " + protocol.StatusERR
	}
	uid, pass := args[0], args[1]
	log.Request(protocol.TagLMR, uid, peerAddr)

	if ok, status := authenticate(s, uid, pass); !ok {
		return protocol.TagRMR + " " + status
	}

	entries := reservation.ListForUser(s, uid)
	if len(entries) == 0 {
		return protocol.TagRMR + " " + protocol.StatusNOK
	}

	parts := make([]string, 0, len(entries)*4+2)
	parts = append(parts, protocol.TagRMR, protocol.StatusOK)
	for _, e := range entries {
		date, clock := splitDatetime(e.At)
		parts = append(parts, e.EID, date, clock, itoa(e.Seats))
	}
	return strings.Join(parts, " ")
}

// eventState loads eid and derives its current lifecycle state.
func eventState(s *store.Store, eid string, now time.Time) (lifecycle.State, bool) {
	rec, ok := s.LoadEvent(eid)
	if !ok {
		return 0, false
	}
	declared, err := protocol.ParseDateTime(rec.Date, rec.Time)
	if err != nil {
		return 0, false
	}
	endTime, endOK := lifecycle.ReadEndMarker(s, eid)
	return lifecycle.Derive(declared, rec.Capacity, rec.Reserved, endTime, endOK, now), true
}

// splitDatetime breaks a "dd-mm-yyyy hh:mm:ss" string back into its date
// and time-of-day tokens.
func splitDatetime(s string) (date, clock string) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
