package svgread

import (
	"log/slog"

	"github.com/benoitkugler/svgwriter/internal/logx"
)

var logger logx.Holder

// SetLogger sets the logger receiving the warnings of WarnErrorMode,
// one per skipped element. Pass nil to restore the silent logger.
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Logger returns the current logger.
func Logger() *slog.Logger { return logger.Get() }
