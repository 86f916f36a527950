package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvironmentVariable selects the minimum log level (debug, info, warn, error).
const LogLevelEnvironmentVariable = "SITETREE_LOG_LEVEL"

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
func NewApplicationLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	if levelName := strings.TrimSpace(os.Getenv(LogLevelEnvironmentVariable)); levelName != "" {
		level, parseError := zapcore.ParseLevel(levelName)
		if parseError != nil {
			return nil, parseError
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}
	return config.Build()
}
