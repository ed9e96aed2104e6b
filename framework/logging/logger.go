// Package logging provides the structured logger used across the framework.
//
// It wraps a zap.SugaredLogger with a small, key/value oriented API:
//
//	logger := logging.NewLoggerOrDie(logging.DebugLevel, logging.ConsoleFormat)
//	logger.Debug("entry added", "name", "mailer", "kind", "factory")
//
// The package-level logger is configured from LOG_LEVEL and LOG_FORMAT.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	Level  int8
	Format string
)

const (
	// Zap accepts levels outside its named constants. Discard sits above Fatal
	// and Trace sits one below Debug.
	DiscardLevel Level = Level(zapcore.FatalLevel + 1)
	ErrorLevel   Level = Level(zapcore.ErrorLevel)
	InfoLevel    Level = Level(zapcore.InfoLevel)
	DebugLevel   Level = Level(zapcore.DebugLevel)
	TraceLevel   Level = DebugLevel - 1

	ConsoleFormat Format = "console"
	JSONFormat    Format = "json"
	DefaultFormat Format = ConsoleFormat

	LogLevelEnvVar  = "LOG_LEVEL"
	LogFormatEnvVar = "LOG_FORMAT"
)

var globalLogger *Logger

func init() {
	level := InfoLevel
	if l := os.Getenv(LogLevelEnvVar); l != "" {
		var err error
		if level, err = ParseLevel(l); err != nil {
			panic(err)
		}
	}
	format := DefaultFormat
	if f := os.Getenv(LogFormatEnvVar); f != "" {
		format = Format(f)
	}
	globalLogger = NewLoggerOrDie(level, format)
}

// Logger is a thin wrapper around zap.SugaredLogger.
type Logger struct {
	logger *zap.SugaredLogger
}

// Global returns the package-level logger.
func Global() *Logger { return globalLogger }

// NewDiscardLogger returns a *Logger that drops everything. Useful in tests
// and as the default for components that were not handed a logger.
func NewDiscardLogger() *Logger {
	return &Logger{logger: zap.NewNop().Sugar()}
}

// NewLoggerOrDie is like NewLogger but panics on a bad level or format.
func NewLoggerOrDie(level Level, format Format) *Logger {
	logger, err := NewLogger(level, format)
	if err != nil {
		panic(err)
	}
	return logger
}

// NewLogger returns a *Logger writing to stderr.
func NewLogger(level Level, format Format) (*Logger, error) {
	return newLoggerInternal(level, format, os.Stderr)
}

func newLoggerInternal(level Level, format Format, w io.Writer) (*Logger, error) {
	if level == DiscardLevel {
		return NewDiscardLogger(), nil
	}
	if level < TraceLevel || level > ErrorLevel {
		return nil, fmt.Errorf("invalid log level: %d", level)
	}
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		zapcore.RFC3339TimeEncoder(t.UTC(), enc)
	}
	encCfg.EncodeLevel = traceEncoder

	var encoder zapcore.Encoder
	switch format {
	case ConsoleFormat:
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case JSONFormat:
		encoder = zapcore.NewJSONEncoder(encCfg)
	}
	core := zapcore.NewCore(
		encoder,
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(zapcore.Level(level)),
	)
	return Wrap(zap.New(core, zap.AddCaller())), nil
}

func traceEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if level == zapcore.Level(TraceLevel) {
		enc.AppendString("TRACE")
		return
	}
	zapcore.CapitalLevelEncoder(level, enc)
}

// Wrap returns a *Logger around an existing zap.Logger.
func Wrap(zapLogger *zap.Logger) *Logger {
	return &Logger{
		logger: zapLogger.Sugar().WithOptions(zap.AddCallerSkip(1)),
	}
}

// WithValues returns a child logger carrying the given key/value pairs.
func (l *Logger) WithValues(keysAndValues ...any) *Logger {
	return &Logger{logger: l.logger.With(keysAndValues...)}
}

// Error logs err at the error level.
func (l *Logger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(fmt.Sprintf("%s: %v", msg, err), keysAndValues...)
}

// Info logs a message at the info level.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.logger.Infow(msg, keysAndValues...)
}

// Debug logs a message at the debug level.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

// Trace logs a message at the trace level.
func (l *Logger) Trace(msg string, keysAndValues ...any) {
	l.logger.With(keysAndValues...).Log(zapcore.Level(TraceLevel), msg)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}
