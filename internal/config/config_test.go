package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	require.False(t, cfg.Verbose)
	require.Equal(t, uint16(DefaultPort), cfg.Port)
	require.Equal(t, ".", cfg.Root)
}

func TestParseFlagsOverrides(t *testing.T) {
	cfg, err := ParseFlags([]string{"-v", "-p", "9000", "-d", "/tmp/eventsd"})
	require.NoError(t, err)
	require.True(t, cfg.Verbose)
	require.Equal(t, uint16(9000), cfg.Port)
	require.Equal(t, "/tmp/eventsd", cfg.Root)
}

func TestParseFlagsLongForm(t *testing.T) {
	cfg, err := ParseFlags([]string{"--verbose", "--port=12345", "--root=/srv/events"})
	require.NoError(t, err)
	require.True(t, cfg.Verbose)
	require.Equal(t, uint16(12345), cfg.Port)
	require.Equal(t, "/srv/events", cfg.Root)
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	_, err := ParseFlags([]string{"--bogus"})
	require.Error(t, err)
}
