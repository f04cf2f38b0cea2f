package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSymbols maps a defined name to whether it is a component
type fakeSymbols map[string]bool

func (f fakeSymbols) Exists(name string) bool {
	_, ok := f[name]
	return ok
}

func (f fakeSymbols) IsComponent(name string) bool {
	return f[name]
}

// parseSource lexes and parses source with the given dialect
func parseSource(t *testing.T, source string, dialect DialectConfig) *RootNode {
	t.Helper()
	tokens := NewLexer(source, zap.NewNop()).Tokenize()
	root, err := NewParser(tokens, source, dialect, zap.NewNop()).Parse()
	require.NoError(t, err)
	return root
}

// runPipeline runs every pass the engine runs, in the same order
func runPipeline(source string, symbols SymbolTable, dialect DialectConfig) (string, error) {
	logger := zap.NewNop()
	tokens := NewLexer(source, logger).Tokenize()
	root, err := NewParser(tokens, source, dialect, logger).Parse()
	if err != nil {
		return "", err
	}
	NewNormalizer(logger).Normalize(root)
	NewMerger(logger).Merge(root)
	NewConditionalWrapper(logger).Wrap(root)
	return NewEmitter(NewResolver(symbols, dialect, logger), logger).Emit(root)
}

// process runs the pipeline with the default dialect and no registry
func process(t *testing.T, source string) string {
	t.Helper()
	out, err := runPipeline(source, nil, DefaultDialectConfig())
	require.NoError(t, err)
	return out
}
