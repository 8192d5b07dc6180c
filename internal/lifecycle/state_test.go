package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeriveOpenWhenFutureAndUnderCapacity(t *testing.T) {
	declared := time.Now().Add(24 * time.Hour)
	state := Derive(declared, 10, 3, time.Time{}, false, time.Now())
	require.Equal(t, Open, state)
	require.Equal(t, 1, state.Wire())
}

func TestDeriveSoldOutWhenReservedMeetsCapacity(t *testing.T) {
	declared := time.Now().Add(24 * time.Hour)
	state := Derive(declared, 10, 10, time.Time{}, false, time.Now())
	require.Equal(t, SoldOut, state)
	require.Equal(t, 2, state.Wire())
}

func TestDerivePastWhenDeclaredTimeHasPassedAndNoEndFile(t *testing.T) {
	declared := time.Now().Add(-time.Hour)
	state := Derive(declared, 10, 0, time.Time{}, false, time.Now())
	require.Equal(t, Past, state)
	require.Equal(t, 0, state.Wire())
}

func TestDerivePastWhenEndMarkerEqualsDeclared(t *testing.T) {
	declared := time.Now().Add(-time.Hour)
	state := Derive(declared, 10, 0, declared, true, time.Now())
	require.Equal(t, Past, state)
}

func TestDeriveClosedByUserWhenEndMarkerDiffersFromDeclared(t *testing.T) {
	declared := time.Now().Add(time.Hour)
	closedAt := time.Now()
	state := Derive(declared, 10, 0, closedAt, true, time.Now())
	require.Equal(t, ClosedByUser, state)
	require.Equal(t, 3, state.Wire())
}

func TestDeriveMalformedEndMarkerTreatedAsClosedByUser(t *testing.T) {
	declared := time.Now().Add(-time.Hour)
	// endOK=true with a zero endDatetime is how ReadEndMarker reports a
	// present end-file whose content does not parse; even though the
	// declared time has passed, the marker's presence wins.
	state := Derive(declared, 10, 0, time.Time{}, true, time.Now())
	require.Equal(t, ClosedByUser, state)
}

func TestDeriveIsPureFunctionOfInputs(t *testing.T) {
	declared := time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	a := Derive(declared, 50, 10, time.Time{}, false, now)
	b := Derive(declared, 50, 10, time.Time{}, false, now)
	require.Equal(t, a, b)
}

func TestStateStringNames(t *testing.T) {
	require.Equal(t, "Past", Past.String())
	require.Equal(t, "Open", Open.String())
	require.Equal(t, "SoldOut", SoldOut.String())
	require.Equal(t, "ClosedByUser", ClosedByUser.String())
}
