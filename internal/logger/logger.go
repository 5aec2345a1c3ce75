// Package logger wraps zap with a file-rotating core for the
// back-office server.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger holds the configured zap logger.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger with a no-op core until Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds the real logger at the given level ("Debug", "Info",
// "Warn", "Error"). Logs go to stderr and to a rotated file.
func (l *Logger) Init(level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "logs/server.log",
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, lvl),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), lvl),
	)
	l.Log = zap.New(core, zap.AddCaller())
	return nil
}
