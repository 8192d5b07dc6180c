package transport

import (
	"net"
	"time"

	"github.com/stlalpha/eventsd/internal/dispatch"
	"github.com/stlalpha/eventsd/internal/elog"
	"github.com/stlalpha/eventsd/internal/protocol"
	"github.com/stlalpha/eventsd/internal/store"
)

// streamReadTimeout bounds how long a worker will block on a half-open
// connection before giving up, per §5's resource-consumption guidance.
const streamReadTimeout = 30 * time.Second

// serveStream owns the TCP listener's blocking Accept loop, adapted from
// this codebase's accept-loop-plus-goroutine pattern: each connection is
// handed to an isolated worker that shares no in-memory state with the
// loop, handles exactly one command, and closes.
func serveStream(ln net.Listener, s *store.Store, log elog.Logger, shuttingDown func() bool) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if shuttingDown() {
				return
			}
			log.Errorf("tcp: accept: %v", err)
			continue
		}
		go handleConn(conn, s, log)
	}
}

func handleConn(conn net.Conn, s *store.Store, log elog.Logger) {
	peer := conn.RemoteAddr().String()
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("tcp: panic handling %s: %v", peer, r)
		}
		conn.Close()
	}()

	if err := conn.SetDeadline(time.Now().Add(streamReadTimeout)); err != nil {
		log.Errorf("tcp: set deadline for %s: %v", peer, err)
		return
	}

	r := protocol.NewReader(conn)
	if err := dispatch.HandleStream(s, log, peer, r, conn); err != nil {
		log.Debugf("tcp: %s: %v", peer, err)
	}
}
