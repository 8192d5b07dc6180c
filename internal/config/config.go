// Package config resolves the server's command-line surface into a
// ServerConfig: the verbosity flag, the bind port, and the filesystem
// root under which USERS/ and EVENTS/ live.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// defaultGroupNumber is the compile-time group constant the original
// assignment derived the default port from (58000 + GN).
const defaultGroupNumber = 47

// DefaultPort is the port the server binds when -p/--port is not given.
const DefaultPort = 58000 + defaultGroupNumber

// ServerConfig holds the resolved configuration for one server run.
type ServerConfig struct {
	Verbose bool
	Port    uint16
	Root    string
}

// ParseFlags parses args (typically os.Args[1:]) into a ServerConfig,
// mirroring the original's getopt("vp:") surface: -v/--verbose and
// -p/--port. -d/--root is a domain-stack addition that lets the store
// root be selected without os.Chdir, defaulting to ".".
func ParseFlags(args []string) (ServerConfig, error) {
	fs := pflag.NewFlagSet("eventsd", pflag.ContinueOnError)

	verbose := fs.BoolP("verbose", "v", false, "enable per-request log lines")
	port := fs.Uint16P("port", "p", DefaultPort, "port to bind (default 58000+GN)")
	root := fs.StringP("root", "d", ".", "filesystem root for USERS/ and EVENTS/")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, fmt.Errorf("config: %w", err)
	}

	return ServerConfig{
		Verbose: *verbose,
		Port:    *port,
		Root:    *root,
	}, nil
}
