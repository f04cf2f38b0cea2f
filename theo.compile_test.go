package theo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// countingCache wraps a MemoryCache and can fail on demand
type countingCache struct {
	*MemoryCache
	gets    int
	puts    int
	failGet bool
	failPut bool
}

func newCountingCache() *countingCache {
	return &countingCache{MemoryCache: NewMemoryCache(DefaultMemoryCacheConfig(), nil)}
}

func (c *countingCache) Get(ctx context.Context, digest string) (*CompiledEntry, bool, error) {
	c.gets++
	if c.failGet {
		return nil, false, errors.New("get failed")
	}
	return c.MemoryCache.Get(ctx, digest)
}

func (c *countingCache) Put(ctx context.Context, entry *CompiledEntry) error {
	c.puts++
	if c.failPut {
		return errors.New("put failed")
	}
	return c.MemoryCache.Put(ctx, entry)
}

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, provider
}

func spanAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestCachedEngine_MissThenHit(t *testing.T) {
	recorder, provider := newRecorder()
	cache := newCountingCache()
	compiler := NewCachedEngine(MustNew(), cache, WithTracerProvider(provider))
	ctx := context.Background()

	source := `<_row a%="b"/>`
	expected := `<%= render partial: 'row', locals: {'a': b} %>`

	out, err := compiler.Compile(ctx, "row.theo", source)
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	out, err = compiler.Compile(ctx, "row.theo", source)
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.puts)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for i, wantHit := range []bool{false, true} {
		assert.Equal(t, SpanNameCompile, spans[i].Name())

		hit, ok := spanAttr(spans[i].Attributes(), SpanAttrCacheHit)
		require.True(t, ok)
		assert.Equal(t, wantHit, hit.AsBool())

		name, ok := spanAttr(spans[i].Attributes(), SpanAttrTemplateName)
		require.True(t, ok)
		assert.Equal(t, "row.theo", name.AsString())

		digest, ok := spanAttr(spans[i].Attributes(), SpanAttrDigest)
		require.True(t, ok)
		assert.Equal(t, compiler.Digest(source), digest.AsString())
	}
}

func TestCachedEngine_ErrorsNotCached(t *testing.T) {
	recorder, provider := newRecorder()
	cache := newCountingCache()
	compiler := NewCachedEngine(MustNew(), cache, WithTracerProvider(provider))

	_, err := compiler.Compile(context.Background(), "bad.theo", `<_row yields="x"/>`)
	require.Error(t, err)
	assert.True(t, IsUsageError(err))
	assert.Zero(t, cache.puts)
	assert.Zero(t, cache.Len())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestCachedEngine_CacheFailuresDegrade(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cache := newCountingCache()
	cache.failGet = true
	cache.failPut = true
	compiler := NewCachedEngine(MustNew(), cache, WithCacheLogger(zap.New(core)))

	out, err := compiler.Compile(context.Background(), "card.theo", `<Card/>`)
	require.NoError(t, err)
	assert.Equal(t, `<%= render CardComponent.new() %>`, out)

	assert.Equal(t, 1, logs.FilterMessage(LogMsgCacheLookupFailed).Len())
	assert.Equal(t, 1, logs.FilterMessage(LogMsgCacheStoreFailed).Len())
}

func TestCachedEngine_Digest(t *testing.T) {
	a := NewCachedEngine(MustNew(), newCountingCache())
	b := NewCachedEngine(MustNew(), newCountingCache())
	c := NewCachedEngine(MustNew(WithComponentSuffix("View")), newCountingCache())

	assert.Len(t, a.Digest("x"), 16)
	assert.Equal(t, a.Digest("x"), b.Digest("x"))
	assert.NotEqual(t, a.Digest("x"), a.Digest("y"))
	assert.NotEqual(t, a.Digest("x"), c.Digest("x"))
}

func TestCachedEngine_ConfigChangeMisses(t *testing.T) {
	cache := newCountingCache()
	ctx := context.Background()

	first := NewCachedEngine(MustNew(), cache)
	out, err := first.Compile(ctx, "w.theo", `<Widget/>`)
	require.NoError(t, err)
	assert.Equal(t, `<%= render WidgetComponent.new() %>`, out)

	second := NewCachedEngine(MustNew(WithComponentSuffix("View")), cache)
	out, err = second.Compile(ctx, "w.theo", `<Widget/>`)
	require.NoError(t, err)
	assert.Equal(t, `<%= render WidgetView.new() %>`, out)
	assert.Equal(t, 2, cache.puts)
}

func TestCachedEngine_Close(t *testing.T) {
	engine := MustNew()
	compiler := NewCachedEngine(engine, NewMemoryCache(DefaultMemoryCacheConfig(), nil))

	assert.Same(t, engine, compiler.Engine())
	require.NoError(t, compiler.Close())

	out, err := compiler.Compile(context.Background(), "p.theo", "<p>x</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", out)
}
