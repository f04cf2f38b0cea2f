package theo

import "time"

// Version is the library version, part of the engine fingerprint
const Version = "0.4.0"

// Default dialect markers
const (
	DefaultPartialPrefix   = "_"
	DefaultPartialSuffix   = ""
	DefaultComponentSuffix = "Component"
	DefaultMaxDepth        = 0 // unlimited
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyErrorCode    = "error_code"
	MetaKeyLine         = "line"
	MetaKeyColumn       = "column"
	MetaKeyOffset       = "offset"
	MetaKeyTag          = "tag"
	MetaKeyAttribute    = "attribute"
	MetaKeyTemplateName = "template_name"
	MetaKeyCurrentDepth = "current_depth"
	MetaKeyMaxDepth     = "max_depth"
	MetaKeyComponent    = "component"
	MetaKeyDriver       = "driver"
	MetaKeyDigest       = "digest"
	MetaKeyPath         = "path"
	MetaKeyReason       = "reason"
)

// Log message constants
const (
	LogMsgEngineCreated       = "engine created"
	LogMsgProcessStart        = "processing template"
	LogMsgProcessDone         = "template processed"
	LogMsgProcessFailed       = "template processing failed"
	LogMsgComponentRegistered = "component registered"
	LogMsgComponentCollision  = "component already registered, keeping first"
	LogMsgCacheHit            = "compile cache hit"
	LogMsgCacheMiss           = "compile cache miss"
	LogMsgCacheLookupFailed   = "compile cache lookup failed"
	LogMsgCacheStoreFailed    = "compile cache store failed"
	LogMsgCacheEvicted        = "compile cache entry evicted"
	LogMsgCacheMigrated       = "compile cache schema migrated"
)

// Log field names
const (
	LogFieldTemplate  = "template"
	LogFieldSource    = "source_length"
	LogFieldOutput    = "output_length"
	LogFieldComponent = "component"
	LogFieldDigest    = "digest"
	LogFieldDriver    = "driver"
	LogFieldError     = "error"
	LogFieldCount     = "count"
)

// Fingerprint layout
const (
	FingerprintSep       = "|"
	FingerprintListSep   = ","
	FingerprintFieldsFmt = "theo=%s" + FingerprintSep + "prefix=%s" + FingerprintSep + "suffix=%s" +
		FingerprintSep + "component=%s" + FingerprintSep + "depth=%d" + FingerprintSep + "registry=%s"
	FingerprintNoRegistry = "-"
)

// Cache driver names
const (
	CacheDriverNameMemory   = "memory"
	CacheDriverNamePostgres = "postgres"
)

// Memory cache defaults
const (
	MemoryCacheDefaultTTL        = time.Hour
	MemoryCacheDefaultMaxEntries = 1024
)

// Postgres cache defaults
const (
	PostgresDriverName             = "postgres"
	PostgresTablePrefix            = "theo_"
	PostgresTableCompiled          = "compiled"
	PostgresDefaultMaxOpenConns    = 10
	PostgresDefaultMaxIdleConns    = 2
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 10 * time.Second
)

// Tracing names and attribute keys
const (
	TracerName           = "github.com/itsatony/go-theo"
	SpanNameCompile      = "theo.compile"
	SpanAttrTemplateName = "theo.template.name"
	SpanAttrDigest       = "theo.template.digest"
	SpanAttrCacheHit     = "theo.cache.hit"
	SpanAttrSourceLength = "theo.template.source_length"
)
