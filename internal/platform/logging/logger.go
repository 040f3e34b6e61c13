package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/janisto/scoring-api/internal/platform/timeutil"
)

var (
	loggerMu   sync.RWMutex
	baseLogger *slog.Logger
)

// Options configures the process-wide logger.
type Options struct {
	Level  slog.Level
	Output io.Writer
}

// severityHandler wraps slog.JSONHandler so every record carries a UTC timestamp.
type severityHandler struct {
	slog.Handler
}

func (h *severityHandler) Handle(ctx context.Context, r slog.Record) error {
	r.Time = r.Time.UTC()
	return h.Handler.Handle(ctx, r)
}

func (h *severityHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &severityHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *severityHandler) WithGroup(name string) slog.Handler {
	return &severityHandler{Handler: h.Handler.WithGroup(name)}
}

var severityNames = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	slog.LevelWarn:  "WARNING",
	slog.LevelError: "ERROR",
	levelCritical:   "CRITICAL",
}

const levelCritical = slog.LevelError + 4

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(timeutil.RFC3339Micros))
		a.Key = "timestamp"
	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			if name, found := severityNames[level]; found {
				a.Value = slog.StringValue(name)
			}
		}
		a.Key = "severity"
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// New builds a JSON logger for opts without installing it.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	h := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: replaceAttr,
	})
	return slog.New(&severityHandler{Handler: h})
}

// Init installs the process-wide logger. Call it once at startup.
func Init(opts Options) *slog.Logger {
	l := New(opts)
	loggerMu.Lock()
	baseLogger = l
	loggerMu.Unlock()
	return l
}

// Logger returns the process-wide slog.Logger instance, writing INFO and above
// to stdout when Init was never called.
func Logger() *slog.Logger {
	loggerMu.RLock()
	l := baseLogger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if baseLogger == nil {
		baseLogger = New(Options{Level: slog.LevelInfo})
	}
	return baseLogger
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(strings.TrimSpace(s)))
	return level, err
}
