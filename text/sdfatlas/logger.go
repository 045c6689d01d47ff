package sdfatlas

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards every log record; Enabled returning
// false lets a caller skip message formatting entirely when logging is
// disabled, the package's default.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by this package's cache and
// rasterization diagnostics. Pass nil to restore the silent default.
// Callers normally reach this indirectly through raytext.SetLogger,
// which propagates the same logger here.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the logger currently configured via SetLogger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
