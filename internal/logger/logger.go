package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level       string
	ServiceName string
	Development bool
}

var (
	global *zap.Logger
	mu     sync.RWMutex
)

// Init initializes the global logger
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{ServiceName: "enrollment-api"}
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err == nil {
			zapCfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	log, err := zapCfg.Build(zap.Fields(zap.String("service", cfg.ServiceName)))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	global = log
	mu.Unlock()
	return nil
}

// Get returns the global logger, falling back to a no-op logger when
// Init has not been called (keeps tests quiet).
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Sync flushes any buffered log entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		_ = global.Sync()
	}
}
