package logging

import (
	"context"
	"log/slog"
)

// LogAuthEvent records an authorization decision for a method call.
// Tokens are never logged.
func LogAuthEvent(ctx context.Context, login, method string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelInfo, "auth decision",
		slog.String("auth.login", login),
		slog.String("auth.method", method),
		slog.String("auth.result", result),
	)
}
