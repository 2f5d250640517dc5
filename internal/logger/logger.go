// Package logger constructs the application's structured zap logger.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger so callers hold one handle that can be
// initialized after construction.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger with a no-op core until Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds the production logger at the given level (debug, info,
// warn, error). JSON output to stdout with ISO8601 timestamps.
func (l *Logger) Init(level string) error {
	var lvl zapcore.Level
	switch level {
	case "debug", "Debug":
		lvl = zapcore.DebugLevel
	case "info", "Info", "":
		lvl = zapcore.InfoLevel
	case "warn", "Warn", "warning":
		lvl = zapcore.WarnLevel
	case "error", "Error":
		lvl = zapcore.ErrorLevel
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stdout), lvl)
	l.Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}
