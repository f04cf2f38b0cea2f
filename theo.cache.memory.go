package theo

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryCacheConfig configures a MemoryCache
type MemoryCacheConfig struct {
	// TTL is how long an entry stays valid.
	// Default: 1 hour
	TTL time.Duration

	// MaxEntries bounds the cache size; the oldest entry is evicted first.
	// Default: 1024
	MaxEntries int
}

// DefaultMemoryCacheConfig returns the default memory cache configuration
func DefaultMemoryCacheConfig() MemoryCacheConfig {
	return MemoryCacheConfig{
		TTL:        MemoryCacheDefaultTTL,
		MaxEntries: MemoryCacheDefaultMaxEntries,
	}
}

// MemoryCache is an in-process CompileCache with TTL and size bound
type MemoryCache struct {
	entries map[string]CompiledEntry
	config  MemoryCacheConfig
	now     func() time.Time
	mu      sync.Mutex
	closed  bool
	logger  *zap.Logger
}

type memoryCacheDriver struct{}

func init() {
	RegisterCacheDriver(CacheDriverNameMemory, memoryCacheDriver{})
}

// Open creates a MemoryCache from a generic cache configuration
func (memoryCacheDriver) Open(config CacheConfig, logger *zap.Logger) (CompileCache, error) {
	return NewMemoryCache(MemoryCacheConfig{
		TTL:        config.TTL,
		MaxEntries: config.MaxEntries,
	}, logger), nil
}

// NewMemoryCache creates a memory cache. Zero config values take defaults.
func NewMemoryCache(config MemoryCacheConfig, logger *zap.Logger) *MemoryCache {
	if config.TTL <= 0 {
		config.TTL = MemoryCacheDefaultTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = MemoryCacheDefaultMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryCache{
		entries: make(map[string]CompiledEntry),
		config:  config,
		now:     time.Now,
		logger:  logger,
	}
}

// Get returns a copy of the entry for digest if present and not expired
func (c *MemoryCache) Get(ctx context.Context, digest string) (*CompiledEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false, NewCacheClosedError()
	}

	entry, ok := c.entries[digest]
	if !ok {
		return nil, false, nil
	}
	if c.now().Sub(entry.CreatedAt) >= c.config.TTL {
		delete(c.entries, digest)
		return nil, false, nil
	}
	return &entry, true, nil
}

// Put stores an entry, evicting the oldest one when the cache is full
func (c *MemoryCache) Put(ctx context.Context, entry *CompiledEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry == nil || entry.Digest == "" {
		return &CacheError{Message: ErrMsgCacheEmptyDigest}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return NewCacheClosedError()
	}

	stored := *entry
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = c.now()
	}

	if _, exists := c.entries[stored.Digest]; !exists && len(c.entries) >= c.config.MaxEntries {
		c.evictOldest()
	}
	c.entries[stored.Digest] = stored
	return nil
}

// evictOldest removes the entry with the earliest creation time.
// Callers must hold the lock.
func (c *MemoryCache) evictOldest() {
	var (
		oldestDigest string
		oldestTime   time.Time
	)
	for digest, entry := range c.entries {
		if oldestDigest == "" || entry.CreatedAt.Before(oldestTime) {
			oldestDigest = digest
			oldestTime = entry.CreatedAt
		}
	}
	if oldestDigest != "" {
		delete(c.entries, oldestDigest)
		c.logger.Debug(LogMsgCacheEvicted, zap.String(LogFieldDigest, oldestDigest))
	}
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Close drops all entries
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.entries = nil
	return nil
}
