package dispatch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stlalpha/eventsd/internal/protocol"
	"github.com/stlalpha/eventsd/internal/store"
	"github.com/stlalpha/eventsd/internal/userdb"
)

func mustHandle(t *testing.T, s *store.Store, req string) string {
	t.Helper()
	log := testLogger()
	var out bytes.Buffer
	r := protocol.NewReader(strings.NewReader(req))
	err := HandleStream(s, log, "1.2.3.4:9", r, &out)
	require.NoError(t, err)
	return out.String()
}

func TestStreamCREThenSEDRoundTrips(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)

	resp := mustHandle(t, s, "CRE 123456 abcd1234 conf 01-01-2030 10:00 50 desc.txt 5 hello\n")
	require.True(t, strings.HasPrefix(resp, "RCE OK "))
	eid := strings.TrimSpace(strings.TrimPrefix(resp, "RCE OK "))
	require.Len(t, eid, 3)

	sed := mustHandle(t, s, "SED "+eid+"\n")
	require.Contains(t, sed, " hello\n")
	require.True(t, strings.HasPrefix(sed, "RSE OK 123456 conf 01-01-2030 10:00 50 0 desc.txt 5 "))
}

func TestStreamLSTEmptyIsNOK(t *testing.T) {
	s := store.New(t.TempDir())
	require.Equal(t, "RLS NOK\n", mustHandle(t, s, "LST\n"))
}

func TestStreamRIDFillsCapacityThenSoldOut(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)

	resp := mustHandle(t, s, "CRE 123456 abcd1234 conf 01-01-2030 10:00 10 desc.txt 0 \n")
	eid := strings.TrimSpace(strings.TrimPrefix(resp, "RCE OK "))

	accept := mustHandle(t, s, "RID 123456 abcd1234 "+eid+" 10\n")
	require.Equal(t, "RRI ACC\n", accept)

	soldOut := mustHandle(t, s, "RID 123456 abcd1234 "+eid+" 1\n")
	require.Equal(t, "RRI SLD\n", soldOut)
}

func TestStreamRIDRejectsOverRemaining(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)

	resp := mustHandle(t, s, "CRE 123456 abcd1234 conf 01-01-2030 10:00 10 desc.txt 0 \n")
	eid := strings.TrimSpace(strings.TrimPrefix(resp, "RCE OK "))

	accept := mustHandle(t, s, "RID 123456 abcd1234 "+eid+" 7\n")
	require.Equal(t, "RRI ACC\n", accept)

	rejected := mustHandle(t, s, "RID 123456 abcd1234 "+eid+" 5\n")
	require.Equal(t, "RRI REJ 3\n", rejected)
}

func TestStreamCLSByOwnerThenRIDSeesCLS(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)

	resp := mustHandle(t, s, "CRE 123456 abcd1234 conf 01-01-2030 10:00 10 desc.txt 0 \n")
	eid := strings.TrimSpace(strings.TrimPrefix(resp, "RCE OK "))

	require.Equal(t, "RCL OK\n", mustHandle(t, s, "CLS 123456 abcd1234 "+eid+"\n"))
	require.Equal(t, "RRI CLS\n", mustHandle(t, s, "RID 123456 abcd1234 "+eid+" 1\n"))
}

func TestStreamCLSRejectsNonOwner(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)
	_, err = userdb.Login(s, "222222", "pwpwpwpw")
	require.NoError(t, err)

	resp := mustHandle(t, s, "CRE 123456 abcd1234 conf 01-01-2030 10:00 10 desc.txt 0 \n")
	eid := strings.TrimSpace(strings.TrimPrefix(resp, "RCE OK "))

	require.Equal(t, "RCL EOW\n", mustHandle(t, s, "CLS 222222 pwpwpwpw "+eid+"\n"))
}

func TestStreamCLSWrongPasswordIsNOK(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)

	resp := mustHandle(t, s, "CRE 123456 abcd1234 conf 01-01-2030 10:00 10 desc.txt 0 \n")
	eid := strings.TrimSpace(strings.TrimPrefix(resp, "RCE OK "))

	require.Equal(t, "RCL NOK\n", mustHandle(t, s, "CLS 123456 wrongpw1 "+eid+"\n"))
}

func TestStreamCLSUnknownUserIsNOK(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)

	resp := mustHandle(t, s, "CRE 123456 abcd1234 conf 01-01-2030 10:00 10 desc.txt 0 \n")
	eid := strings.TrimSpace(strings.TrimPrefix(resp, "RCE OK "))

	require.Equal(t, "RCL NOK\n", mustHandle(t, s, "CLS 999999 abcd1234 "+eid+"\n"))
}

func TestStreamCLSLoggedOutOwnerIsNLG(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)

	resp := mustHandle(t, s, "CRE 123456 abcd1234 conf 01-01-2030 10:00 10 desc.txt 0 \n")
	eid := strings.TrimSpace(strings.TrimPrefix(resp, "RCE OK "))

	_, err = userdb.Logout(s, "123456", "abcd1234")
	require.NoError(t, err)

	require.Equal(t, "RCL NLG\n", mustHandle(t, s, "CLS 123456 abcd1234 "+eid+"\n"))
}

func TestStreamCPSChangesPassword(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := userdb.Login(s, "123456", "abcd1234")
	require.NoError(t, err)

	require.Equal(t, "RCP OK\n", mustHandle(t, s, "CPS 123456 abcd1234 newpass1\n"))
	require.Equal(t, "RLI OK", HandleDatagram(s, testLogger(), "1.2.3.4:9", "LIN 123456 newpass1"))
}
