package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type implLogger struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// New creates a Logger writing to stdout. format is "json" or "console".
func New(level, format string) Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, level, format string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: w != os.Stdout}
	}

	return &implLogger{
		logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
		level:  lvl,
	}
}

func (l *implLogger) shouldLog(level zerolog.Level) bool {
	return level >= l.level
}

func (l *implLogger) log(ctx context.Context, level zerolog.Level, msg string, args []interface{}) {
	if !l.shouldLog(level) {
		return
	}
	ev := l.logger.WithLevel(level)
	if f, ok := fieldsFrom(ctx); ok {
		if f.runID != "" {
			ev = ev.Str("run_id", f.runID)
		}
		if f.transcript != "" {
			ev = ev.Str("transcript", f.transcript)
		}
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	ev.Msg(msg)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, zerolog.DebugLevel, msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, zerolog.InfoLevel, msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, zerolog.WarnLevel, msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, zerolog.ErrorLevel, msg, args)
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop(), level: zerolog.Disabled}
}
