// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "promptstore"

type Logger struct {
	Log *zap.Logger
}

// New returns a logger that discards everything until Init is called.
func New() *Logger {
	return &Logger{
		Log: zap.NewNop(),
	}
}

// Init switches to JSON output on stderr at the given level.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]any{"service": serviceName}

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = zl
	return nil
}

// Sync flushes buffered entries. Errors from syncing a terminal are
// expected and ignored.
func (l *Logger) Sync() {
	_ = l.Log.Sync()
}
