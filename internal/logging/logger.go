package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level, encoding and destination of the application logger.
type Options struct {
	Level  string
	Format string
	Output string
}

// Logger wraps zap.SugaredLogger with task-oriented helpers.
type Logger struct {
	*zap.SugaredLogger
}

// New builds a logger. Format "json" selects the production encoder;
// anything else logs human-readable console lines.
func New(opts Options) (*Logger, error) {
	var zapConfig zap.Config
	if opts.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.DisableStacktrace = true
	}

	level := opts.Level
	if level == "" {
		level = "info"
	}
	if DebugEnabled() {
		level = "debug"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(parsed)

	output := opts.Output
	if output == "" {
		output = "stderr"
	}
	zapConfig.OutputPaths = []string{output}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With("component", component)}
}

// LogStoreOperation records the outcome of a load or save.
func (l *Logger) LogStoreOperation(operation, location string, tasks int, err error) {
	fields := []interface{}{
		"operation", operation,
		"location", location,
		"tasks", tasks,
	}
	if err != nil {
		l.Errorw("Store operation failed", append(fields, "error", err.Error())...)
		return
	}
	l.Debugw("Store operation completed", fields...)
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}
