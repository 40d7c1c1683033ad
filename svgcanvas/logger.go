package svgcanvas

import (
	"log/slog"

	"github.com/benoitkugler/svgwriter/internal/logx"
)

var logger logx.Holder

// SetLogger configures the logger used by the package, which is
// silent by default. Pass nil to restore the silent logger.
//
// Canvases log at [slog.LevelDebug] when definitions are created
// or reused and when the root element is finalized.
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Logger returns the current logger.
func Logger() *slog.Logger { return logger.Get() }
