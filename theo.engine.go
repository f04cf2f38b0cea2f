package theo

import (
	"fmt"
	"strings"

	"github.com/itsatony/go-theo/internal"
	"go.uber.org/zap"
)

// Engine rewrites Theo markup into ERB.
// It is immutable after construction and safe for concurrent use.
type Engine struct {
	dialect  internal.DialectConfig
	symbols  internal.SymbolTable
	registry ComponentRegistry
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateEngineConfig(config); err != nil {
		return nil, err
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var symbols internal.SymbolTable
	if config.registry != nil {
		symbols = registrySymbols{registry: config.registry}
	}

	engine := &Engine{
		dialect: internal.DialectConfig{
			PartialPrefix:   config.partialPrefix,
			PartialSuffix:   config.partialSuffix,
			ComponentSuffix: config.componentSuffix,
			MaxDepth:        config.maxDepth,
		},
		symbols:  symbols,
		registry: config.registry,
		logger:   logger,
	}
	logger.Debug(LogMsgEngineCreated)
	return engine, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

func validateEngineConfig(c *engineConfig) error {
	if c.partialPrefix == "" && c.partialSuffix == "" {
		return NewConfigError(ErrMsgNoPartialMarker, nil)
	}
	for _, marker := range []string{c.partialPrefix, c.partialSuffix} {
		if strings.ContainsAny(marker, " \t\r\n<>/=\"'%") {
			return NewConfigError(ErrMsgInvalidMarker, nil)
		}
	}
	if c.maxDepth < 0 {
		return NewConfigError(ErrMsgNegativeMaxDepth, nil)
	}
	return nil
}

// Process rewrites a template source and returns ERB
func (e *Engine) Process(source string) (string, error) {
	return e.process(source, "")
}

// ProcessFile is Process with a template name attached to errors and logs
func (e *Engine) ProcessFile(name, source string) (string, error) {
	return e.process(source, name)
}

func (e *Engine) process(source, name string) (string, error) {
	logger := e.logger
	if name != "" {
		logger = logger.With(zap.String(LogFieldTemplate, name))
	}
	logger.Debug(LogMsgProcessStart, zap.Int(LogFieldSource, len(source)))

	tokens := internal.NewLexer(source, logger).Tokenize()
	root, err := internal.NewParser(tokens, source, e.dialect, logger).Parse()
	if err != nil {
		logger.Debug(LogMsgProcessFailed, zap.Error(err))
		return "", translateError(err, name)
	}

	internal.NewNormalizer(logger).Normalize(root)
	internal.NewMerger(logger).Merge(root)
	internal.NewConditionalWrapper(logger).Wrap(root)

	resolver := internal.NewResolver(e.symbols, e.dialect, logger)
	output, err := internal.NewEmitter(resolver, logger).Emit(root)
	if err != nil {
		logger.Debug(LogMsgProcessFailed, zap.Error(err))
		return "", translateError(err, name)
	}

	logger.Debug(LogMsgProcessDone, zap.Int(LogFieldOutput, len(output)))
	return output, nil
}

// Registry returns the component registry, nil when none was configured
func (e *Engine) Registry() ComponentRegistry {
	return e.registry
}

// MaxDepth returns the configured maximum dialect nesting depth
func (e *Engine) MaxDepth() int {
	return e.dialect.MaxDepth
}

// Fingerprint describes every setting that affects output. Two engines with
// equal fingerprints produce equal output for the same source, provided a
// registry, when present, lists its names.
func (e *Engine) Fingerprint() string {
	registry := FingerprintNoRegistry
	if lister, ok := e.registry.(interface{ List() []string }); ok {
		registry = strings.Join(lister.List(), FingerprintListSep)
	}
	return fmt.Sprintf(FingerprintFieldsFmt,
		Version,
		e.dialect.PartialPrefix,
		e.dialect.PartialSuffix,
		e.dialect.ComponentSuffix,
		e.dialect.MaxDepth,
		registry,
	)
}

// defaultEngine backs the package-level Process
var defaultEngine = MustNew()

// Process rewrites source with a default engine: no registry, default markers
func Process(source string) (string, error) {
	return defaultEngine.Process(source)
}
