package pixbuf

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip attribute construction entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by pixbuf and its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by pixbuf:
//   - [slog.LevelDebug]: dispatch decisions (converter chosen, band count)
//   - [slog.LevelWarn]: invalid arguments, out-of-range access, unsupported
//     operations for a format, incompatible color spaces
//   - [slog.LevelError]: allocation failure
//
// Example:
//
//	pixbuf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelWarn,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by pixbuf.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// warn logs a warning attributed to op.
func warn(op, msg string, args ...any) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelWarn) {
		return
	}
	l.Warn(msg, append([]any{slog.String("op", op)}, args...)...)
}

// oom logs a failed allocation.
func oom(op string, width, height int, format Format) {
	Logger().Error("out of memory",
		slog.String("op", op),
		slog.Int("width", width),
		slog.Int("height", height),
		slog.String("format", format.String()))
}

func debug(msg string, args ...any) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(msg, args...)
}
