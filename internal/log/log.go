// Package log provides a global logger for zerolog.
package log

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Logger = l
	zerolog.DefaultContextLogger = &l
}

// Logger returns the global zerolog Logger.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// SetLevel sets the minimum global log level.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// With creates a child logger with the field added to its context.
func With() zerolog.Context {
	return Logger().With()
}

// Ctx returns the logger associated with the given context, falling back to
// the global logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// Debug starts a new message with debug level.
//
// You must call Msg on the returned event in order to send the event.
func Debug(ctx context.Context) *zerolog.Event {
	return Ctx(ctx).Debug()
}

// Info starts a new message with info level.
//
// You must call Msg on the returned event in order to send the event.
func Info(ctx context.Context) *zerolog.Event {
	return Ctx(ctx).Info()
}

// Warn starts a new message with warn level.
//
// You must call Msg on the returned event in order to send the event.
func Warn(ctx context.Context) *zerolog.Event {
	return Ctx(ctx).Warn()
}

// Error starts a new message with error level.
//
// You must call Msg on the returned event in order to send the event.
func Error(ctx context.Context) *zerolog.Event {
	return Ctx(ctx).Error()
}

// Fatal starts a new message with fatal level.
//
// You must call Msg on the returned event in order to send the event.
func Fatal() *zerolog.Event {
	return Logger().Fatal()
}

// WithContext returns a context that has an associated logger derived from
// the global logger via update.
func WithContext(ctx context.Context, update func(c zerolog.Context) zerolog.Context) context.Context {
	l := Logger().With().Logger()
	l.UpdateContext(update)
	return l.WithContext(ctx)
}
