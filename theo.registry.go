package theo

import (
	"sort"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Capability describes what a registered name can be rendered as
type Capability int

// Capability constants
const (
	CapabilityNone Capability = iota
	CapabilityComponent
)

// ComponentRegistry answers existence questions about component classes.
// The engine consults it only to choose between a tag name and its suffixed form.
type ComponentRegistry interface {
	// Exists reports whether a symbol with this name is defined
	Exists(name string) bool
	// Capability returns the capability of a defined symbol
	Capability(name string) (Capability, bool)
}

// StaticRegistry is a map-backed ComponentRegistry with first-come-wins registration.
// It is safe for concurrent use.
type StaticRegistry struct {
	entries map[string]Capability
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewStaticRegistry creates an empty registry
func NewStaticRegistry(logger *zap.Logger) *StaticRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaticRegistry{
		entries: make(map[string]Capability),
		logger:  logger,
	}
}

// Register adds a name with the given capability.
// A name that is already registered keeps its first capability and an error is returned.
func (r *StaticRegistry) Register(name string, capability Capability) error {
	if name == "" {
		return NewConfigError(ErrMsgEmptyComponentName, nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		r.logger.Warn(LogMsgComponentCollision, zap.String(LogFieldComponent, name))
		return NewComponentExistsError(name)
	}

	r.entries[name] = capability
	r.logger.Debug(LogMsgComponentRegistered, zap.String(LogFieldComponent, name))
	return nil
}

// RegisterComponents registers each name as a component
func (r *StaticRegistry) RegisterComponents(names ...string) error {
	for _, name := range names {
		if err := r.Register(name, CapabilityComponent); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether name is registered
func (r *StaticRegistry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entries[name]
	return exists
}

// Capability returns the capability registered for name
func (r *StaticRegistry) Capability(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capability, exists := r.entries[name]
	return capability, exists
}

// List returns all registered names in sorted order
func (r *StaticRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered names
func (r *StaticRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// RegistryManifest is the YAML layout of a component manifest:
//
//	components: [Card, ButtonComponent]
//	symbols: [ApplicationHelper]
type RegistryManifest struct {
	Components []string `yaml:"components"`
	Symbols    []string `yaml:"symbols"`
}

// Apply registers the manifest entries. Symbols are registered without
// component capability.
func (m RegistryManifest) Apply(r *StaticRegistry) error {
	if err := r.RegisterComponents(m.Components...); err != nil {
		return err
	}
	for _, name := range m.Symbols {
		if err := r.Register(name, CapabilityNone); err != nil {
			return err
		}
	}
	return nil
}

// LoadRegistryYAML builds a registry from a YAML component manifest
func LoadRegistryYAML(data []byte, logger *zap.Logger) (*StaticRegistry, error) {
	var manifest RegistryManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, NewConfigError(ErrMsgRegistryParseFailed, err)
	}

	registry := NewStaticRegistry(logger)
	if err := manifest.Apply(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// registrySymbols adapts a ComponentRegistry to the resolver's symbol table
type registrySymbols struct {
	registry ComponentRegistry
}

func (s registrySymbols) Exists(name string) bool {
	return s.registry.Exists(name)
}

func (s registrySymbols) IsComponent(name string) bool {
	capability, ok := s.registry.Capability(name)
	return ok && capability == CapabilityComponent
}
