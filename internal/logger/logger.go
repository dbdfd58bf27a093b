package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dpotapov/slogpfx"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/nguyenvanvutlv/resolver/internal/config"
)

const LevelTrace = slog.Level(-8)

var level = new(slog.LevelVar)

var root atomic.Pointer[slog.Logger]

type Logger struct {
	*slog.Logger
}

func ParseLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(w io.Writer, format string) slog.Handler {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = isatty.IsTerminal(f.Fd())
	}
	if format == "json" || (format == "auto" && !isTTY) {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slogpfx.NewHandler(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTTY,
	}), &slogpfx.HandlerOptions{
		PrefixKeys: []string{"scope"},
	})
}

// Setup (re)configures the process-wide handler. Loggers returned by Scoped
// before the call pick up the new handler.
func Setup(w io.Writer, levelName, format string) {
	level.Set(ParseLevel(levelName))
	root.Store(slog.New(newHandler(w, format)))
}

type scopedHandler struct {
	attrs []slog.Attr
	group string
}

func (h *scopedHandler) target() slog.Handler {
	handler := root.Load().Handler()
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	if h.group != "" {
		handler = handler.WithGroup(h.group)
	}
	return handler
}

func (h *scopedHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.target().Enabled(ctx, l)
}

func (h *scopedHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.target().Handle(ctx, r)
}

func (h *scopedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.group != "" {
		return h.target().WithAttrs(attrs)
	}
	return &scopedHandler{attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *scopedHandler) WithGroup(name string) slog.Handler {
	return &scopedHandler{attrs: h.attrs, group: name}
}

func Scoped(scope string) *Logger {
	return &Logger{slog.New(&scopedHandler{attrs: []slog.Attr{slog.String("scope", scope)}})}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// WithCtx binds args to the logger and stores ctx for every record it emits.
func (l *Logger) WithCtx(ctx context.Context, args ...any) *Logger {
	return &Logger{slog.New(&ctxHandler{Handler: l.Logger.With(args...).Handler(), ctx: ctx})}
}

func (l *Logger) Trace(msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

type ctxHandler struct {
	slog.Handler
	ctx context.Context
}

func (h *ctxHandler) Handle(_ context.Context, r slog.Record) error {
	return h.Handler.Handle(h.ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{Handler: h.Handler.WithAttrs(attrs), ctx: h.ctx}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{Handler: h.Handler.WithGroup(name), ctx: h.ctx}
}

func init() {
	Setup(os.Stderr, config.Log.Level, config.Log.Format)
}
