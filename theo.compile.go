package theo

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CachedEngine compiles templates through a CompileCache.
// Entries are keyed by a digest of the engine fingerprint and the source,
// so a configuration change never serves stale output. Failed compiles are
// not cached.
type CachedEngine struct {
	engine *Engine
	cache  CompileCache
	tracer trace.Tracer
	logger *zap.Logger
}

// CachedOption configures a CachedEngine
type CachedOption func(*CachedEngine)

// WithTracerProvider sets the tracer provider for compile spans.
// Default: the global provider from otel.GetTracerProvider
func WithTracerProvider(provider trace.TracerProvider) CachedOption {
	return func(c *CachedEngine) {
		if provider != nil {
			c.tracer = provider.Tracer(TracerName)
		}
	}
}

// WithCacheLogger sets the logger for cache events.
// Default: the engine's logger
func WithCacheLogger(logger *zap.Logger) CachedOption {
	return func(c *CachedEngine) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCachedEngine wraps an engine with a compile cache
func NewCachedEngine(engine *Engine, cache CompileCache, opts ...CachedOption) *CachedEngine {
	c := &CachedEngine{
		engine: engine,
		cache:  cache,
		tracer: otel.GetTracerProvider().Tracer(TracerName),
		logger: engine.logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Digest returns the cache key of source under this engine's configuration
func (c *CachedEngine) Digest(source string) string {
	h := xxhash.New()
	_, _ = h.WriteString(c.engine.Fingerprint())
	_, _ = h.WriteString(FingerprintSep)
	_, _ = h.WriteString(source)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Compile returns the ERB for source, from the cache when possible.
// Cache failures are logged and the template is compiled directly.
func (c *CachedEngine) Compile(ctx context.Context, name, source string) (string, error) {
	digest := c.Digest(source)

	ctx, span := c.tracer.Start(ctx, SpanNameCompile, trace.WithAttributes(
		attribute.String(SpanAttrTemplateName, name),
		attribute.String(SpanAttrDigest, digest),
		attribute.Int(SpanAttrSourceLength, len(source)),
	))
	defer span.End()

	entry, hit, err := c.cache.Get(ctx, digest)
	if err != nil {
		span.RecordError(err)
		c.logger.Warn(LogMsgCacheLookupFailed,
			zap.String(LogFieldTemplate, name),
			zap.String(LogFieldDigest, digest),
			zap.Error(err))
	}
	if hit {
		span.SetAttributes(attribute.Bool(SpanAttrCacheHit, true))
		c.logger.Debug(LogMsgCacheHit, zap.String(LogFieldTemplate, name), zap.String(LogFieldDigest, digest))
		return entry.Output, nil
	}
	span.SetAttributes(attribute.Bool(SpanAttrCacheHit, false))
	c.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldTemplate, name), zap.String(LogFieldDigest, digest))

	output, err := c.engine.ProcessFile(name, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrMsgProcessFailed)
		return "", err
	}

	if err := c.cache.Put(ctx, &CompiledEntry{Digest: digest, Name: name, Output: output}); err != nil {
		span.RecordError(err)
		c.logger.Warn(LogMsgCacheStoreFailed,
			zap.String(LogFieldTemplate, name),
			zap.String(LogFieldDigest, digest),
			zap.Error(err))
	}
	return output, nil
}

// Engine returns the wrapped engine
func (c *CachedEngine) Engine() *Engine {
	return c.engine
}

// Close closes the underlying cache
func (c *CachedEngine) Close() error {
	return c.cache.Close()
}
