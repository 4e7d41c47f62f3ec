// Package logger builds the zerolog loggers used by the service and the
// pgx query tracer.
package logger

import (
	"io"
	"os"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// New returns a logger writing human-readable lines when pretty is true and
// JSON otherwise. Unknown levels fall back to info.
func New(level string, pretty bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, pretty)
}

func NewWithWriter(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "bookshelf").Logger()
}

// QueryTracer logs every SQL statement through base at a level matching
// the logger's own.
func QueryTracer(base zerolog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger:   pgxzero.NewLogger(base.With().Str("component", "pgx").Logger()),
		LogLevel: TraceLevel(base.GetLevel()),
	}
}

// TraceLevel maps a zerolog level to the closest pgx trace level.
func TraceLevel(lvl zerolog.Level) tracelog.LogLevel {
	switch lvl {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
