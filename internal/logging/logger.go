// Package logging wraps zap with request-scoped context support. Handlers and
// background components receive a *Logger; the request ID travels in the
// context and is attached to every line automatically.
package logging

import (
	"context"

	"go.uber.org/zap"
)

type requestIDKey struct{}

// Logger is a thin wrapper over *zap.Logger that resolves the request ID from
// the context on every call.
type Logger struct {
	l *zap.Logger
}

// New builds a Logger for the given environment: "production" selects the JSON
// production config, anything else the development config.
func New(env string) (*Logger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if env == "production" {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return &Logger{l: zl}, nil
}

// NewNop returns a Logger that discards everything. Intended for tests.
func NewNop() *Logger {
	return &Logger{l: zap.NewNop()}
}

// Wrap adopts an existing zap logger.
func Wrap(zl *zap.Logger) *Logger {
	return &Logger{l: zl}
}

// ContextWithRequestID stores the request ID for later log enrichment.
func ContextWithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestIDFromContext returns the stored request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

func withRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if rid := RequestIDFromContext(ctx); rid != "" {
		return append(fields, zap.String("request_id", rid))
	}
	return fields
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, withRequestID(ctx, fields)...)
}

// With returns a child logger that always carries the given fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l: l.l.With(fields...)}
}

// Sync flushes buffered entries. Safe to call on shutdown.
func (l *Logger) Sync() error {
	return l.l.Sync()
}
