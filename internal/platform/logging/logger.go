// Package logging provides the process logger and its request-scoped
// variants. Output is JSON on stdout using Cloud Logging field names.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RFC3339Micros is the log timestamp layout: RFC 3339 UTC with fixed
// microsecond precision.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

var (
	loggerOnce sync.Once
	baseLogger *zap.Logger
	loggerErr  error
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// SetLevel changes the minimum level of the process logger. It accepts zap
// level names ("debug", "info", "warn", "error").
func SetLevel(name string) error {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("logging: invalid level %q: %w", name, err)
	}
	level.SetLevel(lvl)
	return nil
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(RFC3339Micros))
}

// encodeSeverity writes Cloud Logging severity names.
func encodeSeverity(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(severity(lvl))
}

func severity(lvl zapcore.Level) string {
	switch lvl {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.InfoLevel:
		return "INFO"
	case zapcore.WarnLevel:
		return "WARNING"
	case zapcore.ErrorLevel:
		return "ERROR"
	case zapcore.DPanicLevel:
		return "CRITICAL"
	case zapcore.PanicLevel:
		return "ALERT"
	case zapcore.FatalLevel:
		return "EMERGENCY"
	default:
		return "DEFAULT"
	}
}

func initLogger() {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = encodeTimeMicros
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.EncodeLevel = encodeSeverity
	cfg.EncoderConfig.MessageKey = "message"

	baseLogger, loggerErr = cfg.Build(zap.AddCaller())
	if loggerErr != nil {
		baseLogger = zap.NewNop()
	}
}

// Logger returns the process-wide logger.
func Logger() *zap.Logger {
	loggerOnce.Do(initLogger)
	return baseLogger
}

// Sync flushes buffered entries. Call it during shutdown.
func Sync() error {
	return Logger().Sync()
}

// Err reports a logger construction failure, in which case Logger returns a
// no-op logger.
func Err() error {
	loggerOnce.Do(initLogger)
	return loggerErr
}
