// Package logx holds the package level loggers of svgcanvas
// and svgread, which are silent until configured.
package logx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled returns false so
// that disabled logging skips the attribute formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var silent = slog.New(nopHandler{})

// Holder stores a logger, safe for concurrent use.
// The zero value holds the silent logger.
type Holder struct {
	ptr atomic.Pointer[slog.Logger]
}

// Set replaces the logger. nil restores the silent logger.
func (h *Holder) Set(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	h.ptr.Store(l)
}

// Get returns the current logger.
func (h *Holder) Get() *slog.Logger {
	if l := h.ptr.Load(); l != nil {
		return l
	}
	return silent
}
