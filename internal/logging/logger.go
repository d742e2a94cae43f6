// Package logging provides the shared zap sugared logger.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// New builds a logger for the given level and environment. Production uses
// the JSON encoder; anything else uses the development console encoder.
func New(level, environment string) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return zapLogger.Sugar(), nil
}

// Init configures the global logger once; later calls are no-ops
func Init(level, environment string) {
	once.Do(func() {
		l, err := New(level, environment)
		if err != nil {
			panic(err)
		}
		logger = l
	})
}

// GetLogger returns the global logger, initializing it with defaults if needed
func GetLogger() *zap.SugaredLogger {
	Init("info", "development")
	return logger
}

// Sync flushes buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
