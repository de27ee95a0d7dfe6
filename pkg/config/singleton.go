package config

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	current  atomic.Pointer[Config]
	initOnce sync.Once
	initErr  error
)

// Initialize loads configuration from path with environment variable
// overrides and installs it as the process configuration. An empty path
// uses defaults and the environment only.
//
// Only the first call loads anything; later calls return the first
// call's error, so a failed start cannot be masked by a retry.
func Initialize(path string) error {
	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}
		current.Store(cfg)
	})
	return initErr
}

// GetConfig returns the process configuration, or nil before a successful
// Initialize. Callers must treat the result as read-only; ReloadConfig
// installs a new value instead of mutating this one.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig installs cfg as the process configuration. Intended for tests.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}

// ReloadConfig loads path again and installs the result. On failure the
// configuration in use is kept.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	current.Store(cfg)
	return nil
}

// MustGetConfig is GetConfig for callers that run after Initialize. It
// panics when no configuration is installed.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
