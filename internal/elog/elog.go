// Package elog provides the server's process-wide structured logger,
// adapted from this codebase's zerolog-based logging convention.
package elog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin, leveled logging handle scoped to one component.
type Logger struct {
	zl        zerolog.Logger
	component string
}

var base zerolog.Logger

// Config controls process-wide logger setup.
type Config struct {
	Verbose bool
	Output  io.Writer
}

// Init configures the process-wide logger. Call once at startup before
// any component logger is created.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if f, ok := out.(*os.File); ok && isTerminal(f) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339}
	}
	base = zerolog.New(out).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// WithComponent returns a Logger scoped to the named component (e.g.
// "udp", "tcp", "dispatch").
func WithComponent(component string) Logger {
	return Logger{zl: base.With().Str("component", component).Logger(), component: component}
}

func (l Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Infof(format string, args ...any) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Request logs one inbound command in the exact form the external
// interface requires: "[component] CMD UID=<uid|------> from
// <ip>:<port>". uid should be the literal placeholder "------" when the
// request carries no UID (e.g. SED). Emitted at debug level so it is
// gated on -v the same way Init wires the global level.
func (l Logger) Request(cmd, uid, peerAddr string) {
	l.zl.Debug().Msg(fmt.Sprintf("[%s] %s UID=%s from %s", l.component, cmd, uid, peerAddr))
}
