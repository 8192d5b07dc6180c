package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stlalpha/eventsd/internal/protocol"
	"github.com/stlalpha/eventsd/internal/store"
)

func TestEnsurePastEndMarkerIsIdempotent(t *testing.T) {
	s := store.New(t.TempDir())
	declared := time.Now().Add(-time.Hour).Truncate(time.Second)
	now := time.Now()

	require.NoError(t, EnsurePastEndMarker(s, "001", declared, now))
	require.True(t, store.FileExists(s.EndFile("001")))

	got, ok := ReadEndMarker(s, "001")
	require.True(t, ok)
	require.True(t, got.Equal(declared))

	// A second call must not overwrite the marker.
	require.NoError(t, EnsurePastEndMarker(s, "001", declared.Add(time.Hour), now))
	got2, ok := ReadEndMarker(s, "001")
	require.True(t, ok)
	require.True(t, got2.Equal(declared))
}

func TestEnsurePastEndMarkerSkippedWhenNotYetPast(t *testing.T) {
	s := store.New(t.TempDir())
	declared := time.Now().Add(time.Hour)
	require.NoError(t, EnsurePastEndMarker(s, "002", declared, time.Now()))
	require.False(t, store.FileExists(s.EndFile("002")))
}

func TestCloseByOwnerWritesCurrentTime(t *testing.T) {
	s := store.New(t.TempDir())
	declared := time.Now().Add(time.Hour).Truncate(time.Second)
	now := time.Now().Truncate(time.Second)

	require.NoError(t, CloseByOwner(s, "003", now))
	got, ok := ReadEndMarker(s, "003")
	require.True(t, ok)
	require.True(t, got.Equal(now))
	require.False(t, got.Equal(declared))
}

func TestReadEndMarkerMalformedIsPresentWithZeroTime(t *testing.T) {
	s := store.New(t.TempDir())
	require.NoError(t, store.WriteLine(s.EndFile("004"), "not-a-datetime"))
	got, ok := ReadEndMarker(s, "004")
	require.True(t, ok)
	require.True(t, got.IsZero())
}

func TestEndMarkerFormatMatchesProtocolLayout(t *testing.T) {
	s := store.New(t.TempDir())
	now := time.Date(2026, 3, 4, 9, 30, 15, 0, time.Local)
	require.NoError(t, CloseByOwner(s, "005", now))

	line, err := store.ReadFirstLine(s.EndFile("005"))
	require.NoError(t, err)
	require.Equal(t, "04-03-2026 09:30:15", line)

	parsed, err := protocol.ParseDatetime(line)
	require.NoError(t, err)
	require.True(t, parsed.Equal(now))
}
