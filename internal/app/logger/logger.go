// Package logger wraps zerolog with component-scoped child loggers.
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger struct {
	zerolog.Logger
}

// Component is implemented by services that want a named child logger.
type Component interface {
	LoggerComponent() string
}

// New configures the global log level and output and returns the root
// logger. Pretty output is meant for a terminal, not for log shipping.
func New(verbose, pretty bool) Logger {
	logLevel := zerolog.InfoLevel
	if verbose {
		logLevel = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return Logger{log.Logger}
}

// Global returns the current global logger.
func Global() *Logger {
	return &Logger{log.Logger}
}

// Get returns the context logger scoped to the given component.
func Get(ctx context.Context, c interface{}) Logger {
	return Ctx(ctx).Component(c)
}

// Ctx returns the logger carried by the context.
func Ctx(ctx context.Context) Logger {
	return Logger{Logger: *zerolog.Ctx(ctx)}
}

// Component returns a child logger named after c when it implements the
// Component interface, otherwise the logger unchanged.
func (l Logger) Component(c interface{}) Logger {
	if v, ok := c.(Component); ok {
		return l.WithComponent(v.LoggerComponent())
	}

	return l
}

// WithComponent returns a child logger for a named component.
func (l Logger) WithComponent(name string) Logger {
	return Logger{Logger: l.With().Str("component", name).Logger()}
}
