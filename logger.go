package overlay

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called from a goroutine other than the render thread.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for overlay and its backends.
// By default, overlay produces no log output. Call SetLogger to enable logging.
//
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by overlay:
//   - [slog.LevelDebug]: instance buffer (re)allocation, resource loading
//   - [slog.LevelInfo]: overlay lifecycle (init, shutdown)
//   - [slog.LevelWarn]: dropped frames (buffer allocation failures)
//
// Example:
//
//	overlay.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	resourcesMu.Lock()
	res := shared
	resourcesMu.Unlock()
	propagateLogger(res, l)
}

// loggerSetter is implemented by backend devices and materials that keep
// their own logger reference.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands l to every part of res that accepts a logger.
func propagateLogger(res *Resources, l *slog.Logger) {
	if res == nil {
		return
	}
	for _, v := range []any{res.Device, res.GlyphMaterial, res.LineMaterial} {
		if ls, ok := v.(loggerSetter); ok {
			ls.SetLogger(l)
		}
	}
}

// Logger returns the current logger used by overlay.
// Backend packages (gpu/, internal/term) call this to share the same
// logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
