// Command eventsd runs the Event Server: it binds the datagram and
// stream transports to one port and serves the wire protocol described
// in the project's design documents until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stlalpha/eventsd/internal/config"
	"github.com/stlalpha/eventsd/internal/elog"
	"github.com/stlalpha/eventsd/internal/lifecycle"
	"github.com/stlalpha/eventsd/internal/store"
	"github.com/stlalpha/eventsd/internal/transport"
)

// janitorSchedule sweeps once a minute; see internal/lifecycle.Janitor.
const janitorSchedule = "0 * * * * *"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	elog.Init(elog.Config{Verbose: cfg.Verbose})
	log := elog.WithComponent("main")

	info, err := os.Stat(cfg.Root)
	if err != nil || !info.IsDir() {
		log.Errorf("root %q is not a directory: %v", cfg.Root, err)
		return 1
	}

	s := store.New(cfg.Root)
	if err := s.EnsureUsersRoot(); err != nil {
		log.Errorf("preparing USERS/: %v", err)
		return 1
	}
	if err := s.EnsureEventsRoot(); err != nil {
		log.Errorf("preparing EVENTS/: %v", err)
		return 1
	}

	srv, err := transport.New(cfg.Port, s)
	if err != nil {
		log.Errorf("binding port %d: %v", cfg.Port, err)
		return 1
	}

	janitor, err := lifecycle.NewJanitor(s, janitorSchedule, elog.WithComponent("lifecycle"))
	if err != nil {
		log.Errorf("starting janitor: %v", err)
		return 1
	}
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitorDone := make(chan struct{})
	go func() {
		janitor.Run(janitorCtx)
		close(janitorDone)
	}()

	log.Infof("listening on port %d (root %s)", cfg.Port, cfg.Root)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		srv.Serve()
		close(done)
	}()

	<-sigCh
	log.Infof("shutting down")
	srv.Shutdown()
	<-done
	stopJanitor()
	<-janitorDone

	return 0
}
