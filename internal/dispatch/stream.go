package dispatch

import (
	"bufio"
	"fmt"
	"io"
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

// HandleStream reads exactly one stream command from r and writes its
// response to w, per the per-connection contract: one command in, one
// response out. A failure to even read a recognizable tag is reported to
// the caller so the worker can close the connection without a response.
func HandleStream(s *store.Store, log elog.Logger, peerAddr string, r *protocol.Reader, w io.Writer) error {
	tag, err := r.Token()
	if err != nil {
		return fmt.Errorf("dispatch: reading tag: %w", err)
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	switch tag {
	case protocol.TagLST:
		return handleLST(s, log, peerAddr, r, bw)
	case protocol.TagCRE:
		return handleCRE(s, log, peerAddr, r, bw)
	case protocol.TagRID:
		return handleRID(s, log, peerAddr, r, bw)
	case protocol.TagCLS:
		return handleCLS(s, log, peerAddr, r, bw)
	case protocol.TagSED:
		return handleSED(s, log, peerAddr, r, bw)
	case protocol.TagCPS:
		return handleCPS(s, log, peerAddr, r, bw)
	default:
		_, werr := io.WriteString(bw, protocol.StatusERR+"\n")
		return werr
	}
}

// readFields reads exactly n further whitespace-delimited tokens,
// consuming the separating space ahead of every token, including the
// space between the already-read tag and the first field.
func readFields(r *protocol.Reader, n int) ([]string, error) {
	fields := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := r.ExpectSpace(); err != nil {
			return nil, err
		}
		tok, err := r.Token()
		if err != nil {
			return nil, err
		}
		fields = append(fields, tok)
	}
	return fields, nil
}

func writeLine(w io.Writer, parts ...string) error {
	_, err := io.WriteString(w, strings.Join(parts, " ")+"\n")
	return err
}

func handleLST(s *store.Store, log elog.Logger, peerAddr string, r *protocol.Reader, w io.Writer) error {
	if err := r.ExpectNewline(); err != nil {
		return writeLine(w, protocol.TagRLS, protocol.StatusERR)
	}
	log.Request(protocol.TagLST, noUID, peerAddr)

	events := s.LoadAllEvents()
	if len(events) == 0 {
		return writeLine(w, protocol.TagRLS, protocol.StatusNOK)
	}

	now := time.Now()
	parts := make([]string, 0, len(events)*5+2)
	parts = append(parts, protocol.TagRLS, protocol.StatusOK)
	for _, rec := range events {
		state, ok := eventState(s, rec.EID, now)
		if !ok {
			continue
		}
		parts = append(parts, rec.EID, rec.Name, itoa(state.Wire()), rec.Date, rec.Time)
	}
	return writeLine(w, parts...)
}

func handleCRE(s *store.Store, log elog.Logger, peerAddr string, r *protocol.Reader, w io.Writer) error {
	fields, err := readFields(r, 8)
	if err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusERR)
	}
	uid, pass, name, date, clock, capStr, fname, fsizeStr := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5], fields[6], fields[7]

	capacity, capErr := strconv.Atoi(capStr)
	fsize, fsizeErr := strconv.Atoi(fsizeStr)
	valid := protocol.ValidUID(uid) && protocol.ValidPassword(pass) &&
		protocol.ValidEventName(name) && protocol.ValidDate(date) && protocol.ValidTime(clock) &&
		capErr == nil && protocol.ValidCapacity(capacity) &&
		protocol.ValidFname(fname) && fsizeErr == nil && protocol.ValidFsize(fsize)
	if !valid {
		// The worker closes the connection right after this response
		// anyway, so there's no need to skip over the still-unread blob.
		return writeLine(w, protocol.TagRCE, protocol.StatusERR)
	}

	if err := r.ExpectSpace(); err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusERR)
	}
	data, err := r.ReadExact(fsize)
	if err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusERR)
	}
	if err := r.ExpectNewline(); err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusERR)
	}

	log.Request(protocol.TagCRE, uid, peerAddr)

	if !userdb.IsLoggedIn(s, uid) {
		return writeLine(w, protocol.TagRCE, protocol.StatusNLG)
	}
	if !userdb.CheckPassword(s, uid, pass) {
		return writeLine(w, protocol.TagRCE, protocol.StatusWRP)
	}

	unlock, err := s.Lock()
	if err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusNOK)
	}
	defer unlock()

	eid, err := s.AllocateEID()
	if err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusNOK)
	}
	if err := s.CreateEvent(eid, uid, name, fname, capacity, date, clock); err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusNOK)
	}
	if err := store.WriteBlob(s.DescriptionFile(eid, fname), data); err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusNOK)
	}
	if err := store.WriteLine(s.CreatedMarker(uid, eid), ""); err != nil {
		return writeLine(w, protocol.TagRCE, protocol.StatusNOK)
	}

	return writeLine(w, protocol.TagRCE, protocol.StatusOK, eid)
}

func handleRID(s *store.Store, log elog.Logger, peerAddr string, r *protocol.Reader, w io.Writer) error {
	fields, err := readFields(r, 4)
	if err != nil {
		return writeLine(w, protocol.TagRRI, protocol.StatusERR)
	}
	if err := r.ExpectNewline(); err != nil {
		return writeLine(w, protocol.TagRRI, protocol.StatusERR)
	}
	uid, pass, eid, seatsStr := fields[0], fields[1], fields[2], fields[3]

	seats, seatsErr := strconv.Atoi(seatsStr)
	if !protocol.ValidUID(uid) || !protocol.ValidPassword(pass) || !protocol.ValidEID(eid) ||
		seatsErr != nil || !protocol.ValidSeats(seats) {
		return writeLine(w, protocol.TagRRI, protocol.StatusERR)
	}

	log.Request(protocol.TagRID, uid, peerAddr)

	outcome, err := reservation.Reserve(s, uid, pass, eid, seats)
	if err != nil {
		return writeLine(w, protocol.TagRRI, protocol.StatusNOK)
	}
	if outcome.Result == reservation.REJ {
		return writeLine(w, protocol.TagRRI, string(outcome.Result), itoa(outcome.Remaining))
	}
	return writeLine(w, protocol.TagRRI, string(outcome.Result))
}

func handleCLS(s *store.Store, log elog.Logger, peerAddr string, r *protocol.Reader, w io.Writer) error {
	fields, err := readFields(r, 3)
	if err != nil {
		return writeLine(w, protocol.TagRCL, protocol.StatusERR)
	}
	if err := r.ExpectNewline(); err != nil {
		return writeLine(w, protocol.TagRCL, protocol.StatusERR)
	}
	uid, pass, eid := fields[0], fields[1], fields[2]
	if !protocol.ValidUID(uid) || !protocol.ValidPassword(pass) || !protocol.ValidEID(eid) {
		return writeLine(w, protocol.TagRCL, protocol.StatusERR)
	}

	log.Request(protocol.TagCLS, uid, peerAddr)

	// CLS conflates an unknown user with a wrong password into NOK, a
	// third precedence distinct from both Reservations (NLG covers
	// unknown-or-logged-out) and LME/LMR (NOK only covers unknown); only
	// an existing, correctly-authenticated but logged-out user gets NLG.
	if !userdb.Exists(s, uid) || !userdb.CheckPassword(s, uid, pass) {
		return writeLine(w, protocol.TagRCL, protocol.StatusNOK)
	}
	if !userdb.IsLoggedIn(s, uid) {
		return writeLine(w, protocol.TagRCL, protocol.StatusNLG)
	}

	rec, ok := s.LoadEvent(eid)
	if !ok {
		return writeLine(w, protocol.TagRCL, protocol.StatusNOE)
	}
	if rec.OwnerUID != uid {
		return writeLine(w, protocol.TagRCL, protocol.StatusEOW)
	}

	declared, err := protocol.ParseDateTime(rec.Date, rec.Time)
	if err != nil {
		return writeLine(w, protocol.TagRCL, protocol.StatusNOK)
	}

	unlock, err := s.Lock()
	if err != nil {
		return writeLine(w, protocol.TagRCL, protocol.StatusNOK)
	}
	defer unlock()

	// Re-load under the gate: state may have changed since the
	// lock-free OwnerUID check above.
	rec, ok = s.LoadEvent(eid)
	if !ok {
		return writeLine(w, protocol.TagRCL, protocol.StatusNOE)
	}
	now := time.Now()
	endTime, endOK := lifecycle.ReadEndMarker(s, eid)
	state := lifecycle.Derive(declared, rec.Capacity, rec.Reserved, endTime, endOK, now)

	switch state {
	case lifecycle.Past:
		if err := lifecycle.EnsurePastEndMarker(s, eid, declared, now); err != nil {
			return writeLine(w, protocol.TagRCL, protocol.StatusNOK)
		}
		return writeLine(w, protocol.TagRCL, protocol.StatusPST)
	case lifecycle.ClosedByUser:
		return writeLine(w, protocol.TagRCL, protocol.StatusCLO)
	case lifecycle.SoldOut:
		return writeLine(w, protocol.TagRCL, protocol.StatusSLD)
	}

	if err := lifecycle.CloseByOwner(s, eid, now); err != nil {
		return writeLine(w, protocol.TagRCL, protocol.StatusNOK)
	}
	return writeLine(w, protocol.TagRCL, protocol.StatusOK)
}

func handleSED(s *store.Store, log elog.Logger, peerAddr string, r *protocol.Reader, w io.Writer) error {
	fields, err := readFields(r, 1)
	if err != nil {
		return writeLine(w, protocol.TagRSE, protocol.StatusERR)
	}
	if err := r.ExpectNewline(); err != nil {
		return writeLine(w, protocol.TagRSE, protocol.StatusERR)
	}
	eid := fields[0]
	if !protocol.ValidEID(eid) {
		return writeLine(w, protocol.TagRSE, protocol.StatusERR)
	}

	log.Request(protocol.TagSED, noUID, peerAddr)

	rec, ok := s.LoadEvent(eid)
	if !ok {
		return writeLine(w, protocol.TagRSE, protocol.StatusNOK)
	}
	data, err := store.ReadBlob(s.DescriptionFile(eid, rec.DescFile))
	if err != nil {
		return writeLine(w, protocol.TagRSE, protocol.StatusNOK)
	}

	header := strings.Join([]string{
		protocol.TagRSE, protocol.StatusOK,
		rec.OwnerUID, rec.Name, rec.Date, rec.Time,
		itoa(rec.Capacity), itoa(rec.Reserved), rec.DescFile, itoa(len(data)),
	}, " ")
	if _, err := io.WriteString(w, header+" "); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func handleCPS(s *store.Store, log elog.Logger, peerAddr string, r *protocol.Reader, w io.Writer) error {
	fields, err := readFields(r, 3)
	if err != nil {
		return writeLine(w, protocol.TagRCP, protocol.StatusERR)
	}
	if err := r.ExpectNewline(); err != nil {
		return writeLine(w, protocol.TagRCP, protocol.StatusERR)
	}
	uid, oldPass, newPass := fields[0], fields[1], fields[2]
	if !protocol.ValidUID(uid) || !protocol.ValidPassword(oldPass) || !protocol.ValidPassword(newPass) {
		return writeLine(w, protocol.TagRCP, protocol.StatusERR)
	}

	log.Request(protocol.TagCPS, uid, peerAddr)

	res, err := userdb.ChangePassword(s, uid, oldPass, newPass)
	if err != nil {
		return writeLine(w, protocol.TagRCP, protocol.StatusERR)
	}
	return writeLine(w, protocol.TagRCP, string(res))
}
