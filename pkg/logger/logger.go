// Package logger builds the zap logger of the gateway.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the outputs.
type Options struct {
	// FilePath enables a rotating JSON log file next to the console output.
	FilePath   string
	Production bool
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// New returns a console logger, teed with a rotating file when FilePath is set.
// Production logs JSON at info level; development logs readable lines at debug.
func New(opts Options) *zap.Logger {
	var (
		consoleEncoder zapcore.Encoder
		level          zapcore.Level
	)
	if opts.Production {
		consoleEncoder = zapcore.NewJSONEncoder(encoderConfig())
		level = zap.InfoLevel
	} else {
		dev := zap.NewDevelopmentEncoderConfig()
		dev.TimeKey = "timestamp"
		dev.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(dev)
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level)

	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rotator), zap.InfoLevel)
		core = zapcore.NewTee(core, fileCore)
	}
	return zap.New(core, zap.AddCaller())
}
