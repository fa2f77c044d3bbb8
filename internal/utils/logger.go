package utils

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zlog is the process-wide structured logger. It is a no-op logger until
// InitLogger is called, so packages can log from tests without setup.
var Zlog = zap.NewNop()

// InitLogger replaces Zlog with a logger built for the given level and
// environment. Production uses JSON output, everything else the console encoder.
func InitLogger(level, environment string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(environment, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	Zlog = logger
	return logger, nil
}

// SetLogger swaps Zlog and returns a function restoring the previous logger.
func SetLogger(logger *zap.Logger) func() {
	prev := Zlog
	Zlog = logger
	return func() { Zlog = prev }
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
