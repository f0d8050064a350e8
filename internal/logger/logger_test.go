package logger

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func newTestLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"none", LevelNone},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitLoggerJSONInProd(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l := initLogger(&buf, slog.LevelInfo, "prod")
	l.Debug("hidden")
	l.Info("visible", slog.String("k", "v"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %s", out)
	}
	if !strings.Contains(out, `"msg":"visible"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("expected JSON output, got: %s", out)
	}
}

func TestInitLoggerNone(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l := initLogger(&buf, ParseLogLevel("none"), "test")
	l.Error("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got: %s", buf.String())
	}
}

func TestContextRequestLoggerFallsBackToDefault(t *testing.T) {
	if got := ContextRequestLogger(context.Background()); got != slog.Default() {
		t.Error("expected default logger for a context without a request logger")
	}
}

func TestContextWithLogAttrsWithoutHolder(t *testing.T) {
	// must not panic
	ContextWithLogAttrs(context.Background(), slog.String("k", "v"))
}

func TestRequestLogging(t *testing.T) {
	base, buf := newTestLogger(t)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(RequestLogging(base))
	router.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		ContextRequestLogger(r.Context()).Debug("inside handler")
		ContextWithLogAttrs(r.Context(), slog.String("post_id", "abc"))
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		path      string
		wantLevel string
		wantAttrs []string
	}{
		{"/ok", "level=INFO", []string{"status=200", "post_id=abc", "method=GET", "path=/ok", "request_id="}},
		{"/fail", "level=ERROR", []string{"status=500"}},
		{"/missing", "level=WARN", []string{"status=404"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("expected %s in output:\n%s", tt.wantLevel, out)
			}
			for _, attr := range tt.wantAttrs {
				if !strings.Contains(out, attr) {
					t.Errorf("expected %q in output:\n%s", attr, out)
				}
			}
		})
	}

	buf.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	if !strings.Contains(buf.String(), "msg=\"inside handler\"") {
		t.Errorf("expected handler log line from request logger, got:\n%s", buf.String())
	}
}
