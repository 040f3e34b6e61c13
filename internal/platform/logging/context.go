package logging

import (
	"context"
	"log/slog"
	"os"
)

type (
	ctxLoggerKey    struct{}
	ctxRequestIDKey struct{}
)

// LoggerFromContext returns the request-scoped logger if present,
// otherwise falls back to the global logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return Logger()
	}
	if l, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return Logger()
}

// RequestIDFromContext returns the request identifier, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxRequestIDKey{}).(string)
	return id
}

// LogInfo writes an informational message using the request-aware logger.
func LogInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// LogWarn writes a warning message using the request-aware logger.
func LogWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// LogError writes an error message using the request-aware logger
// and appends the error attribute when err is non-nil.
func LogError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

// LogFatal logs with critical severity and terminates the process.
func LogFatal(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	LoggerFromContext(ctx).LogAttrs(ctx, levelCritical, msg, attrs...)
	os.Exit(1)
}

// WithRequestID returns ctx carrying id and a logger annotated with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if id == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxRequestIDKey{}, id)
	return contextWithLogger(ctx, LoggerFromContext(ctx).With(slog.String("requestId", id)))
}

func contextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}
