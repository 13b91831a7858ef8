package dbg

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns the development logger when dev is set, the production
// one otherwise.
func NewLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return build(zap.NewDevelopmentConfig())
	}
	return build(zap.NewProductionConfig())
}

func build(cfg zap.Config) (*zap.Logger, error) {
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}
