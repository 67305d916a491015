package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a console logger. Development builds log at debug level with
// colored levels, production at info without color.
func New(env string) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.DebugLevel
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if env == "production" {
		level = zapcore.InfoLevel
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), level)
	return zap.New(core).Sugar()
}
