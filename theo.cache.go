package theo

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CompiledEntry is one cached compile result
type CompiledEntry struct {
	Digest    string    // Content digest of engine fingerprint and source
	Name      string    // Template name, informational
	Output    string    // Generated ERB
	CreatedAt time.Time // When the entry was stored
}

// CompileCache stores compiled output by digest.
// Implementations must be safe for concurrent use.
type CompileCache interface {
	// Get returns the entry for digest; the bool is false on a miss
	Get(ctx context.Context, digest string) (*CompiledEntry, bool, error)
	// Put stores or replaces an entry
	Put(ctx context.Context, entry *CompiledEntry) error
	// Close releases resources; further calls fail
	Close() error
}

// CacheConfig selects and configures a compile cache
type CacheConfig struct {
	Driver      string        `yaml:"driver"`       // "memory" (default) or "postgres"
	DSN         string        `yaml:"dsn"`          // Connection string for postgres
	TablePrefix string        `yaml:"table_prefix"` // Table name prefix for postgres
	TTL         time.Duration `yaml:"ttl"`          // Entry lifetime, 0 for the driver default
	MaxEntries  int           `yaml:"max_entries"`  // Memory cache capacity
}

// CacheDriver opens compile caches
type CacheDriver interface {
	Open(config CacheConfig, logger *zap.Logger) (CompileCache, error)
}

var (
	cacheDrivers   = make(map[string]CacheDriver)
	cacheDriversMu sync.RWMutex
)

// RegisterCacheDriver registers a cache driver by name.
// Panics if the driver is nil or the name is taken.
func RegisterCacheDriver(name string, driver CacheDriver) {
	cacheDriversMu.Lock()
	defer cacheDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilCacheDriver)
	}
	if _, exists := cacheDrivers[name]; exists {
		panic(ErrMsgCacheDriverExists + ": " + name)
	}
	cacheDrivers[name] = driver
}

// ListCacheDrivers returns registered driver names in sorted order
func ListCacheDrivers() []string {
	cacheDriversMu.RLock()
	defer cacheDriversMu.RUnlock()

	names := make([]string, 0, len(cacheDrivers))
	for name := range cacheDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenCache opens a compile cache with the configured driver
func OpenCache(config CacheConfig, logger *zap.Logger) (CompileCache, error) {
	name := config.Driver
	if name == "" {
		name = CacheDriverNameMemory
	}

	cacheDriversMu.RLock()
	driver, exists := cacheDrivers[name]
	cacheDriversMu.RUnlock()

	if !exists {
		return nil, &CacheError{Message: ErrMsgCacheDriverUnknown, Name: name}
	}
	return driver.Open(config, logger)
}

// CacheError represents a compile cache error
type CacheError struct {
	Message string
	Name    string // Driver name or digest
	Cause   error
}

// Error implements the error interface
func (e *CacheError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *CacheError) Unwrap() error {
	return e.Cause
}

// NewCacheClosedError creates an error for operations on a closed cache
func NewCacheClosedError() error {
	return &CacheError{Message: ErrMsgCacheClosed}
}
