package theo

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the engine options:
//
//	partial_prefix: "_"
//	partial_suffix: ""
//	component_suffix: Component
//	max_depth: 0
//	components: [Card, Modal]
//	cache:
//	  driver: postgres
//	  dsn: postgres://localhost/theo?sslmode=disable
type Config struct {
	PartialPrefix   string      `yaml:"partial_prefix"`
	PartialSuffix   string      `yaml:"partial_suffix"`
	ComponentSuffix string      `yaml:"component_suffix"`
	MaxDepth        int         `yaml:"max_depth"`
	Components      []string    `yaml:"components"`
	Symbols         []string    `yaml:"symbols"`
	Cache           CacheConfig `yaml:"cache"`
}

// DefaultConfig returns the configuration matching a default Engine
func DefaultConfig() *Config {
	return &Config{
		PartialPrefix:   DefaultPartialPrefix,
		PartialSuffix:   DefaultPartialSuffix,
		ComponentSuffix: DefaultComponentSuffix,
		MaxDepth:        DefaultMaxDepth,
		Cache:           CacheConfig{Driver: CacheDriverNameMemory},
	}
}

// ParseConfig parses YAML over the defaults; keys that are absent keep their default
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, NewConfigError(ErrMsgConfigParseFailed, err)
	}
	return config, nil
}

// LoadConfig reads and parses a YAML config file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigReadFailed, err)
	}
	return ParseConfig(data)
}

// Registry builds the component registry the config describes, nil when it lists none
func (c *Config) Registry(logger *zap.Logger) (*StaticRegistry, error) {
	if len(c.Components) == 0 && len(c.Symbols) == 0 {
		return nil, nil
	}
	registry := NewStaticRegistry(logger)
	manifest := RegistryManifest{Components: c.Components, Symbols: c.Symbols}
	if err := manifest.Apply(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// Options converts the config to engine options
func (c *Config) Options(logger *zap.Logger) ([]Option, error) {
	opts := []Option{
		WithPartialMarkers(c.PartialPrefix, c.PartialSuffix),
		WithComponentSuffix(c.ComponentSuffix),
		WithMaxDepth(c.MaxDepth),
		WithLogger(logger),
	}

	registry, err := c.Registry(logger)
	if err != nil {
		return nil, err
	}
	if registry != nil {
		opts = append(opts, WithRegistry(registry))
	}
	return opts, nil
}

// NewEngine creates an engine from the config
func (c *Config) NewEngine(logger *zap.Logger) (*Engine, error) {
	opts, err := c.Options(logger)
	if err != nil {
		return nil, err
	}
	return New(opts...)
}
