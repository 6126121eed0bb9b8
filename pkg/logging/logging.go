package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log = zap.NewNop().Sugar()

// Init routes the process logger to a rolling file. Terminal frontends log
// to a file so the board rendering stays clean; the webserver may log to
// stderr instead by passing an empty path.
func Init(filePath string) error {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	var ws zapcore.WriteSyncer
	if filePath == "" {
		cfg := zap.NewDevelopmentConfig()
		logger, err := cfg.Build()
		if err != nil {
			return err
		}
		log = logger.Sugar()
		return nil
	}

	ws = zapcore.AddSync(&lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, zapcore.InfoLevel)
	log = zap.New(core, zap.AddCaller()).Sugar()
	return nil
}

// L returns the process logger. Before Init it is a no-op logger, so library
// code can log unconditionally.
func L() *zap.SugaredLogger {
	return log
}

// Sync flushes buffered log entries. Call on exit.
func Sync() {
	_ = log.Sync()
}
