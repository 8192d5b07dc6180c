package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stlalpha/eventsd/internal/elog"
	"github.com/stlalpha/eventsd/internal/store"
)

func testLogger() elog.Logger {
	elog.Init(elog.Config{})
	return elog.WithComponent("test")
}

func TestDatagramLoginRegistersThenAuthenticates(t *testing.T) {
	s := store.New(t.TempDir())
	log := testLogger()

	require.Equal(t, "RLI REG", HandleDatagram(s, log, "1.2.3.4:9", "LIN 123456 abcd1234"))
	require.Equal(t, "RLI OK", HandleDatagram(s, log, "1.2.3.4:9", "LIN 123456 abcd1234"))
	require.Equal(t, "RLI NOK", HandleDatagram(s, log, "1.2.3.4:9", "LIN 123456 abcd9999"))
}

func TestDatagramUnknownTag(t *testing.T) {
	s := store.New(t.TempDir())
	log := testLogger()
	require.Equal(t, "ERR", HandleDatagram(s, log, "1.2.3.4:9", "XYZ 123456 abcd1234"))
}

func TestDatagramMalformedLineIsERR(t *testing.T) {
	s := store.New(t.TempDir())
	log := testLogger()
	require.Equal(t, "RLI ERR", HandleDatagram(s, log, "1.2.3.4:9", "LIN 123456 abcd1234 extra"))
	require.Equal(t, "RLI ERR", HandleDatagram(s, log, "1.2.3.4:9", "LIN 12 abcd1234"))
}

func TestDatagramLogoutAndUnregister(t *testing.T) {
	s := store.New(t.TempDir())
	log := testLogger()

	HandleDatagram(s, log, "1.2.3.4:9", "LIN 123456 abcd1234")
	require.Equal(t, "RLO OK", HandleDatagram(s, log, "1.2.3.4:9", "LOU 123456 abcd1234"))
	require.Equal(t, "RUR UNR", HandleDatagram(s, log, "1.2.3.4:9", "UNR 000000 abcd1234"))
}

func TestDatagramLMENoEventsIsNOK(t *testing.T) {
	s := store.New(t.TempDir())
	log := testLogger()
	HandleDatagram(s, log, "1.2.3.4:9", "LIN 123456 abcd1234")
	require.Equal(t, "RME NOK", HandleDatagram(s, log, "1.2.3.4:9", "LME 123456 abcd1234"))
}

func TestDatagramLMRUnknownUserIsNOK(t *testing.T) {
	s := store.New(t.TempDir())
	log := testLogger()
	require.Equal(t, "RMR NOK", HandleDatagram(s, log, "1.2.3.4:9", "LMR 123456 abcd1234"))
}

func TestDatagramLMRLoggedOutUserIsNLG(t *testing.T) {
	s := store.New(t.TempDir())
	log := testLogger()
	HandleDatagram(s, log, "1.2.3.4:9", "LIN 123456 abcd1234")
	HandleDatagram(s, log, "1.2.3.4:9", "LOU 123456 abcd1234")
	require.Equal(t, "RMR NLG", HandleDatagram(s, log, "1.2.3.4:9", "LMR 123456 abcd1234"))
}
