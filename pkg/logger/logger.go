// Package logger provides the structured, levelled logger used across the
// backend, built on log/slog. In production (APP_ENV=production) records are
// emitted as JSON; in development as human-readable text. An optional MongoDB
// sink can be attached for persistent request auditing (see mongo_handler.go).
//
// Handlers receive a per-request logger pre-tagged with the request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("orden creada", "numero_orden", order.NumeroOrden)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/hbdiaz/ferremat/config"
)

// L is the base logger. Prefer WithCtx inside request handling.
var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// AttachMongoSink replaces the base logger with one that also writes every
// record to MongoDB. Called from server boot when MONGO_LOG_URI is set.
func AttachMongoSink(h *MongoHandler) {
	L = slog.New(newTeeHandler(L.Handler(), h))
	slog.SetDefault(L)
}

// ctxKey stores the per-request logger injected by the Logger middleware.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base logger
// when none has been injected (CLI commands, tests).
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx. Called by the Logger
// middleware; application code should not need it.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }

// teeHandler fans a record out to two handlers. The secondary handler must
// never block; MongoHandler enqueues asynchronously.
type teeHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func newTeeHandler(primary, secondary slog.Handler) *teeHandler {
	return &teeHandler{primary: primary, secondary: secondary}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.primary.Enabled(ctx, level) || t.secondary.Enabled(ctx, level)
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	err := t.primary.Handle(ctx, r.Clone())
	_ = t.secondary.Handle(ctx, r)
	return err
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{
		primary:   t.primary.WithAttrs(attrs),
		secondary: t.secondary.WithAttrs(attrs),
	}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{
		primary:   t.primary.WithGroup(name),
		secondary: t.secondary.WithGroup(name),
	}
}
