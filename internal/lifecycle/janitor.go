package lifecycle

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stlalpha/eventsd/internal/elog"
	"github.com/stlalpha/eventsd/internal/protocol"
	"github.com/stlalpha/eventsd/internal/store"
)

// Janitor periodically sweeps every allocated event and opportunistically
// pre-writes end-markers for ones that have gone Past, amortizing that
// write off the read path. It never changes what any read observes: the
// lifecycle state function is defined independent of whether the marker
// has already been written.
//
// Sweeps are driven by a seconds-resolution robfig/cron scheduler; each
// sweep lists EVENTS/ and then holds the store gate while it checks each
// event.
type Janitor struct {
	store *store.Store
	cron  *cron.Cron
	log   elog.Logger
}

// NewJanitor builds a Janitor that sweeps on the given cron schedule
// (seconds-resolution, e.g. "0 * * * * *" for once a minute).
func NewJanitor(s *store.Store, schedule string, log elog.Logger) (*Janitor, error) {
	j := &Janitor{
		store: s,
		cron:  cron.New(cron.WithSeconds()),
		log:   log,
	}
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, err
	}
	return j, nil
}

// Run starts the janitor and blocks until ctx is canceled, then stops it
// gracefully.
func (j *Janitor) Run(ctx context.Context) {
	j.cron.Start()
	<-ctx.Done()
	stopCtx := j.cron.Stop()
	<-stopCtx.Done()
}

func (j *Janitor) sweep() {
	entries, err := os.ReadDir(j.store.EventsRoot())
	if err != nil {
		return
	}
	unlock, err := j.store.Lock()
	if err != nil {
		j.log.Errorf("janitor: gate acquisition failed: %v", err)
		return
	}
	defer unlock()

	now := time.Now()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		eid := entry.Name()
		if err := j.sweepOne(eid, now); err != nil {
			j.log.Debugf("janitor: %s: %v", eid, err)
		}
	}
}

func (j *Janitor) sweepOne(eid string, now time.Time) error {
	rec, ok := j.store.LoadEvent(eid)
	if !ok {
		return fmt.Errorf("load failed")
	}
	declared, err := protocol.ParseDateTime(rec.Date, rec.Time)
	if err != nil {
		return err
	}
	endTime, endOK := ReadEndMarker(j.store, eid)
	state := Derive(declared, rec.Capacity, rec.Reserved, endTime, endOK, now)
	if state != Past {
		return nil
	}
	return EnsurePastEndMarker(j.store, eid, declared, now)
}
