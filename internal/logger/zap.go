package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

var levelNames = map[string]zapcore.Level{
	DebugLevel: zapcore.DebugLevel,
	InfoLevel:  zapcore.InfoLevel,
	WarnLevel:  zapcore.WarnLevel,
	ErrorLevel: zapcore.ErrorLevel,
}

// parseLevel maps a configured name to a zap level. Unrecognized names log
// at info.
func parseLevel(name string) zapcore.Level {
	if lvl, ok := levelNames[name]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}

// newZapLogger builds the console logger the daemon runs on: RFC3339
// timestamps, capitalized levels, stderr.
func newZapLogger(level string) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(parseLevel(level)),
	)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}
