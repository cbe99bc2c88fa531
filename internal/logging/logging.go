// Package logging holds the process-wide zerolog logger shared by all
// components. GUI code and backends log through L instead of wiring a logger
// through every constructor.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// L is the global logger. Defaults to Info level on a console writer.
var L = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().
	Timestamp().
	Caller().
	Logger()

// SetLogLevel adjusts the level of the global logger.
func SetLogLevel(level zerolog.Level) {
	L = L.Level(level)
}
