package folio

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// LoggingContext returns a copy of ctx carrying the passed logger. Render
// uses it for anything that can only be logged, like failures while writing
// the fallback error page.
func LoggingContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// logger retrieves the *slog.Logger stored with LoggingContext, falling
// back to a logger that discards everything so callers never need a nil
// check.
func logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return slog.New(discardHandler{})
	}
	return logger
}

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool { return false }

func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }

func (d discardHandler) WithAttrs(_ []slog.Attr) slog.Handler { return d }

func (d discardHandler) WithGroup(_ string) slog.Handler { return d }
