package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var global = build("info")

// Init replaces the global logger with one at the given level.
func Init(level string) {
	global = build(level)
}

func build(level string) *zap.SugaredLogger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
		os.Stderr.WriteString("logger: fallback to nop: " + err.Error() + "\n")
	}
	return l.Sugar()
}

// WithRunID stamps every log line produced under ctx with the ETL run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, runID)
}

func from(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if runID, ok := ctx.Value(ctxKey{}).(string); ok && runID != "" {
			return global.With("run_id", runID)
		}
	}
	return global
}

func Info(ctx context.Context, msg string) {
	from(ctx).Info(msg)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Warnf(format, args...)
}

func Error(ctx context.Context, msg string) {
	from(ctx).Error(msg)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Errorf(format, args...)
}

func Fatal(ctx context.Context, err error) {
	if err == nil {
		return
	}
	from(ctx).Fatal(err.Error())
}
