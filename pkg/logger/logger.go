package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger fields
const (
	SERVICE  = "service"
	HOSTNAME = "hostname"
	ACTION   = "action"
)

// Setup configures the global zerolog logger. format "console" switches to the
// human readable writer, anything else logs JSON to stderr.
func Setup(level, format string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(ParseLevel(level))

	var out io.Writer = os.Stderr
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case). Unknown values mean INFO.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a child of the global logger tagged with service and hostname.
func New(service string) zerolog.Logger {
	host, _ := os.Hostname()
	return log.With().
		Str(SERVICE, service).
		Str(HOSTNAME, host).
		Logger()
}
