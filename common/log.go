package common

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func normaliseWriters(writers ...zapcore.WriteSyncer) zapcore.WriteSyncer {
	if len(writers) == 1 {
		return writers[0]
	}
	return zapcore.NewMultiWriteSyncer(writers...)
}

// ParseLevel maps a configured log level onto a zap level.
// "none", "disabled", "off" and "0" map above fatal so that nothing is emitted.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug", "5":
		return zapcore.DebugLevel
	case "info", "4":
		return zapcore.InfoLevel
	case "warn", "3":
		return zapcore.WarnLevel
	case "error", "2":
		return zapcore.ErrorLevel
	case "fatal", "1":
		return zapcore.FatalLevel
	case "none", "disabled", "off", "0":
		return zapcore.FatalLevel + 1
	default:
		return zapcore.InfoLevel
	}
}

// logLevel is shared by every logger built in this package so that
// `SetLoggingLevel` applies to all of them.
var logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// SetLoggingLevel takes a level string and accordingly adjusts all loggers
// Supported values:
// "debug" / "5": all logging enabled
// "info" / "4":  info and above enabled
// "warn" / "3":  warn and above enabled
// "error" / "2": error and above enabled
// "fatal" / "1": only fatal enabled
// "disabled" / "none" / "off", "0": all loggers disabled
func SetLoggingLevel(level string) {
	logLevel.SetLevel(ParseLevel(level))
}

// NewJSONLogger creates a `zap.SugaredLogger` configured for JSON output to `writers`
func NewJSONLogger(writers ...zapcore.WriteSyncer) *zap.SugaredLogger {
	writer := normaliseWriters(writers...)
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		TimeKey:        "ts",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), writer, logLevel)
	return zap.New(core).Sugar()
}

// NewConsoleLogger creates a `zap.SugaredLogger` configured for human-readable output to `writers`
func NewConsoleLogger(writers ...zapcore.WriteSyncer) *zap.SugaredLogger {
	writer := normaliseWriters(writers...)
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		TimeKey:        "ts",
		EncodeLevel:    zapcore.LowercaseColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), writer, logLevel)
	return zap.New(core).Sugar()
}
