// Package logging carries a *log.Logger in a context
package logging

import (
	"context"
	"io"
	"log"
	"os"
	"sync"
)

type contextKey string

const loggerKey = contextKey("logger")

const DefaultPrefix = "Symwatch: "

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

func DefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = NewLogger(DefaultPrefix, log.Lmsgprefix)
	})
	return defaultLogger
}

func NewLogger(prefix string, flag int) *log.Logger {
	return NewLoggerTo(os.Stderr, prefix, flag)
}

// NewLoggerTo returns a logger writing to w, the watch screen redirects it to keep the terminal clean
func NewLoggerTo(w io.Writer, prefix string, flag int) *log.Logger {
	return log.New(w, prefix, flag)
}

func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return logger
	}
	return DefaultLogger()
}
