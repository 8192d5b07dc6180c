// Package transport implements the Transport component: a datagram
// receiver and a stream listener, both bound to the same port, each
// running its own accept loop and handing work off to isolated workers.
package transport

import (
	"fmt"
	"net"
	"sync"

	"github.com/stlalpha/eventsd/internal/elog"
	"github.com/stlalpha/eventsd/internal/store"
)

// Server binds a UDP socket and a TCP listener to the same port and runs
// their accept loops until Shutdown is called.
type Server struct {
	udpConn *net.UDPConn
	tcpLn   net.Listener

	store *store.Store
	log   elog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// New binds both sockets to port and returns a Server ready to Serve.
// Binding both transports before returning lets the caller detect a
// port-in-use failure before any request is accepted.
func New(port uint16, s *store.Store) (*Server, error) {
	addr := fmt.Sprintf(":%d", port)

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve udp addr: %w", err)
	}
	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: bind udp %s: %w", addr, err)
	}

	tcpLn, err := net.Listen("tcp", addr)
	if err != nil {
		udpConn.Close()
		return nil, fmt.Errorf("transport: bind tcp %s: %w", addr, err)
	}

	return &Server{
		udpConn: udpConn,
		tcpLn:   tcpLn,
		store:   s,
		log:     elog.WithComponent("transport"),
	}, nil
}

// shuttingDown reports whether Shutdown has already been called, the way
// the accept loops tell a deliberate close apart from a transient error.
func (srv *Server) shuttingDown() bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.closed
}

// Serve starts both accept loops and blocks until Shutdown closes them.
func (srv *Server) Serve() {
	udpLog := elog.WithComponent("udp")
	tcpLog := elog.WithComponent("tcp")

	srv.wg.Add(2)
	go func() {
		defer srv.wg.Done()
		serveDatagram(srv.udpConn, srv.store, udpLog, srv.shuttingDown)
	}()
	go func() {
		defer srv.wg.Done()
		serveStream(srv.tcpLn, srv.store, tcpLog, srv.shuttingDown)
	}()
	srv.wg.Wait()
}

// Shutdown closes both sockets, unblocking their accept loops so that
// Serve returns; it does not itself wait for Serve to return. Safe to
// call more than once.
func (srv *Server) Shutdown() {
	srv.mu.Lock()
	if srv.closed {
		srv.mu.Unlock()
		return
	}
	srv.closed = true
	srv.mu.Unlock()

	if err := srv.tcpLn.Close(); err != nil {
		srv.log.Debugf("transport: close tcp listener: %v", err)
	}
	if err := srv.udpConn.Close(); err != nil {
		srv.log.Debugf("transport: close udp conn: %v", err)
	}
}
