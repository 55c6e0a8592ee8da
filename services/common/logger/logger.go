package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Initialize builds the process logger for the given environment and installs
// it as the zap global. "production" emits JSON with ISO8601 timestamps;
// anything else gets the colored development console encoder.
func Initialize(env string) *zap.Logger {
	return InitializeWithWriter(env, nil)
}

// InitializeWithWriter additionally tees every log line into w when non-nil
// (used to ship logs to CloudWatch).
func InitializeWithWriter(env string, w io.Writer) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var log *zap.Logger
	if w != nil {
		level := zap.NewAtomicLevelAt(config.Level.Level())

		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(config.EncoderConfig),
			zapcore.AddSync(os.Stdout),
			level,
		)
		shipCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(config.EncoderConfig),
			zapcore.AddSync(w),
			level,
		)
		log = zap.New(zapcore.NewTee(consoleCore, shipCore),
			zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		var err error
		log, err = config.Build()
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
	}

	zap.ReplaceGlobals(log)
	return log
}
