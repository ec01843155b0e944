// Package logging builds the zap loggers used by gridconv's commands.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for log files.
const (
	MaxSizeMB  = 50
	MaxBackups = 3
	MaxAgeDays = 30
)

// New returns a logger which writes human-readable lines to stderr and, if
// logFile is non-empty, JSON lines to a rotating log file.
func New(verbose bool, logFile string) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose { level = zapcore.DebugLevel }

	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	if logFile == "" { return zap.New(console) }

	file := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		NewFileWriter(logFile),
		level,
	)
	return zap.New(zapcore.NewTee(console, file))
}

// NewFileWriter returns a WriteSyncer that appends to path and rotates it
// once it grows past MaxSizeMB.
func NewFileWriter(path string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays,
	})
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.CallerKey = zapcore.OmitKey
	return cfg
}
