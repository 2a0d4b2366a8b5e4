package staterng

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// debugEnabled controls whether tracing is enabled via STATERNG_DEBUG env var
var debugEnabled = os.Getenv("STATERNG_DEBUG") == "1"

var activeLogger atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.Nop()
	if debugEnabled {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(zerolog.TraceLevel).
			With().
			Timestamp().
			Str("pkg", "staterng").
			Logger()
	}
	activeLogger.Store(&l)
}

// SetLogger routes the package's diagnostics to l. Events are emitted at
// trace, debug and warn level; pass zerolog.Nop() to silence them.
func SetLogger(l zerolog.Logger) {
	activeLogger.Store(&l)
}

func logger() *zerolog.Logger {
	return activeLogger.Load()
}

// traceRejected logs a growth request refused by a capacity cap.
func traceRejected(kind growthKind, required, limit uint64) {
	logger().Debug().
		Stringer("kind", kind).
		Uint64("required", required).
		Uint64("cap", limit).
		Msg("capacity exceeded")
}

// traceHeader logs the header handed to a new generator.
func traceHeader(what string, header [4]uint64) {
	if e := logger().Trace(); e.Enabled() {
		e.Str("header", fmt.Sprintf("%016x%016x%016x%016x", header[3], header[2], header[1], header[0])).Msg(what)
	}
}

// traceExtension logs an extra leading-zero round of the float exponent.
func traceExtension(seed, pw2 uint32) {
	logger().Trace().Uint32("seed", seed).Uint32("pw2", pw2).Msg("exponent extension")
}
