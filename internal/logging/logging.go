package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. Init must be called before first use;
// until then it is a nop logger so library tests stay quiet.
var Log = zap.NewNop()

// Init configures the global logger. Level is one of debug/info/warn/error;
// anything else falls back to info.
func Init(level string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = logger
	return nil
}

// Sync flushes buffered log entries. Safe to call on the nop logger.
func Sync() {
	_ = Log.Sync()
}
