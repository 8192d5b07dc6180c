package transport

import (
	"net"
	"strings"

	"github.com/stlalpha/eventsd/internal/dispatch"
	"github.com/stlalpha/eventsd/internal/elog"
	"github.com/stlalpha/eventsd/internal/store"
)

// maxDatagramSize bounds one inbound request line; datagram requests
// carry no binary payload so this comfortably covers LMR's 50-entry
// listing response as well as any request line.
const maxDatagramSize = 65507

// serveDatagram owns the UDP socket's blocking ReadFromUDP loop. Each
// datagram is handed to its own goroutine so a slow Dispatch call (e.g.
// LMR scanning many reservation files) cannot stall other lookups.
func serveDatagram(conn *net.UDPConn, s *store.Store, log elog.Logger, shuttingDown func() bool) {
	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if shuttingDown() {
				return
			}
			log.Errorf("udp: read: %v", err)
			continue
		}

		line := strings.TrimRight(string(buf[:n]), "\r\n")
		peer := addr.String()
		payload := append([]byte(nil), line...)

		go func() {
			resp := dispatch.HandleDatagram(s, log, peer, string(payload))
			if _, err := conn.WriteToUDP([]byte(resp+"\n"), addr); err != nil {
				log.Errorf("udp: write to %s: %v", peer, err)
			}
		}()
	}
}
