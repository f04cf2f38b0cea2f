package theo

import (
	"reflect"

	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	partialPrefix   string
	partialSuffix   string
	componentSuffix string
	maxDepth        int
	registry        ComponentRegistry
	logger          *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		partialPrefix:   DefaultPartialPrefix,
		partialSuffix:   DefaultPartialSuffix,
		componentSuffix: DefaultComponentSuffix,
		maxDepth:        DefaultMaxDepth,
		registry:        nil,
		logger:          nil,
	}
}

// WithPartialMarkers sets the markers identifying partial tags.
// An empty marker disables that form; at least one must be set.
// Default: prefix "_", no suffix
func WithPartialMarkers(prefix, suffix string) Option {
	return func(c *engineConfig) {
		c.partialPrefix = prefix
		c.partialSuffix = suffix
	}
}

// WithComponentSuffix sets the suffix tried when resolving component tags.
// Default: "Component"
func WithComponentSuffix(suffix string) Option {
	return func(c *engineConfig) {
		c.componentSuffix = suffix
	}
}

// WithMaxDepth sets the maximum nesting depth of partial and component tags.
// Use 0 for unlimited depth.
// Default: 0
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithRegistry sets the registry consulted when resolving component tags.
// Without a registry every component tag resolves by suffix fallback.
// A nil pointer wrapped in the interface counts as no registry.
func WithRegistry(registry ComponentRegistry) Option {
	return func(c *engineConfig) {
		if isNilRegistry(registry) {
			c.registry = nil
			return
		}
		c.registry = registry
	}
}

func isNilRegistry(registry ComponentRegistry) bool {
	if registry == nil {
		return true
	}
	v := reflect.ValueOf(registry)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
