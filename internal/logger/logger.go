// Package logger provides a thin wrapper around zerolog.Logger with the
// convenience constructors used throughout the SDK.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, etc.) are available directly on *Logger.
// Components receive a *Logger at construction time and may derive child
// loggers with extra fields; request-scoped loggers travel through
// context via zerolog's WithContext/Ctx helpers.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding exposes the full
// zerolog API while leaving room for SDK-specific helpers.
type Logger struct {
	zerolog.Logger
}

// New constructs a *Logger for the given component role (e.g. "syncer",
// "dispatcher"). Output is JSON on stderr with a "role" field, timestamps and
// a "func" caller field carrying the fully-qualified function name.
func New(role string) *Logger {
	return &Logger{newZerolog(os.Stderr, role)}
}

// NewFile constructs a *Logger writing to path with size-based rotation.
// Mobile-style deployments cannot grow a log file without bound, so files are
// capped at 10 MB with three rotated backups. Falls back to stderr when path
// is empty.
func NewFile(role, path string) *Logger {
	if path == "" {
		return New(role)
	}
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return &Logger{newZerolog(out, role)}
}

func newZerolog(out io.Writer, role string) zerolog.Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	return zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger inheriting all fields of the receiver.
// The child can be enriched with extra context fields without affecting the
// parent.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper. If no logger has been attached, zerolog returns its global logger,
// so this never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// WithContext stores l in ctx for later retrieval via FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}
