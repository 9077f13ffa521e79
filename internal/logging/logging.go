// Package logging wires up the zap structured logger used across the server.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared SugaredLogger. Init must be called before first use;
// packages that may run under `go test` fall back to a no-op logger.
var Log = zap.NewNop().Sugar()

// Init configures the global logger. When filePath is non-empty, output is
// duplicated to a rotating log file (10MB per file, 3 backups, 7 days).
func Init(filePath string) {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	ws := zapcore.AddSync(os.Stderr)
	if filePath != "" {
		lj := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   false,
		}
		ws = zapcore.NewMultiWriteSyncer(ws, zapcore.AddSync(lj))
	}

	core := zapcore.NewCore(encoder, ws, zapcore.InfoLevel)
	Log = zap.New(core, zap.AddCaller()).Sugar()
}

// Sync flushes any buffered log entries. Call on shutdown.
func Sync() {
	_ = Log.Sync()
}
