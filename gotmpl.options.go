package gotmpl

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	registry *Registry
	storage  TemplateStorage
	logger   *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		registry: nil,
		storage:  nil,
		logger:   nil,
	}
}

// WithFunctions sets the helper registry for the engine.
// Default: DefaultRegistry()
func WithFunctions(registry *Registry) Option {
	return func(c *engineConfig) {
		c.registry = registry
	}
}

// WithStorage sets the template storage backend for the engine.
// Default: nil (storage operations return an error)
func WithStorage(storage TemplateStorage) Option {
	return func(c *engineConfig) {
		c.storage = storage
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
