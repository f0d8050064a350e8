// Package logger configures the process-wide slog logger and provides
// request scoped loggers for the HTTP server.
//
// Handlers and middleware retrieve the request logger with ContextRequestLogger.
// Attributes that should appear on the final request log line (written by
// RequestLogging once the response is complete) are added with ContextWithLogAttrs.
package logger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

// LevelNone is above every level used by the application so nothing is logged.
const LevelNone = slog.Level(100)

type contextKey int

const (
	loggerKey contextKey = iota
	logAttrsKey
)

// ParseLogLevel converts a LOG_LEVEL value to a slog.Level. Unknown values default to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "off":
		return LevelNone
	default:
		return slog.LevelInfo
	}
}

// InitLogger creates the application logger and installs it as the slog default.
//
// dev and test environments get coloured human readable output (tint),
// everything else gets JSON.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	return initLogger(os.Stdout, level, environment)
}

func initLogger(w io.Writer, level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	switch environment {
	case "dev", "test":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// ContextWithLogger returns a copy of ctx carrying the logger
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// ContextRequestLogger returns the request logger stored in ctx, or the default logger.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// logAttrs collects attributes for the final request log line.
// It is shared by pointer so attributes added further down the handler chain are visible to RequestLogging.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

func (a *logAttrs) add(attrs ...slog.Attr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attrs = append(a.attrs, attrs...)
}

func (a *logAttrs) list() []slog.Attr {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]slog.Attr, len(a.attrs))
	copy(out, a.attrs)
	return out
}

// ContextWithLogAttrs adds attributes to the final request log line.
// It is a no-op when ctx does not come from a request handled by RequestLogging.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	if holder, ok := ctx.Value(logAttrsKey).(*logAttrs); ok {
		holder.add(attrs...)
	}
}

// RequestLogging stores a request scoped logger in the request context and
// writes one log line per request once the response has been written.
//
// Server errors are logged at error level, client errors at warn level and everything else at info.
func RequestLogging(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := base.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			holder := &logAttrs{}
			ctx := ContextWithLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, logAttrsKey, holder)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			}
			attrs = append(attrs, holder.list()...)

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			reqLogger.LogAttrs(r.Context(), level, "request", attrs...)
		})
	}
}
