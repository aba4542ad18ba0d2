// Package logger wraps a process-wide zap logger with context-aware helpers.
package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// Logger is a zap logger that also pulls request-scoped fields out of a context.
type Logger struct {
	z *zap.Logger
}

var (
	mu     sync.RWMutex
	global = &Logger{z: zap.NewNop()}
)

// Init builds the global logger. JSON output is meant for production.
func Init(level string, asJSON bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	if asJSON {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	SetLogger(z)
	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(z *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = &Logger{z: z}
}

// L returns the global logger.
func L() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes buffered entries.
func Sync() error {
	return L().z.Sync()
}

// WithContextFields returns a context that carries fields for every log call made with it.
func WithContextFields(ctx context.Context, fields ...Field) context.Context {
	existing, _ := ctx.Value(ctxKey{}).([]Field)
	merged := make([]Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func (l *Logger) fromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return l.z
	}
	if fields, ok := ctx.Value(ctxKey{}).([]Field); ok && len(fields) > 0 {
		return l.z.With(fields...)
	}
	return l.z
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.fromContext(ctx).Debug(msg, fields...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.fromContext(ctx).Info(msg, fields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.fromContext(ctx).Warn(msg, fields...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.fromContext(ctx).Error(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...Field) { L().Debug(ctx, msg, fields...) }
func Info(ctx context.Context, msg string, fields ...Field)  { L().Info(ctx, msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...Field)  { L().Warn(ctx, msg, fields...) }
func Error(ctx context.Context, msg string, fields ...Field) { L().Error(ctx, msg, fields...) }

// Fatal logs and exits the process.
func Fatal(ctx context.Context, msg string, fields ...Field) {
	L().fromContext(ctx).Fatal(msg, fields...)
}
