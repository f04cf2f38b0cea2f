package theo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	config, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestParseConfig_Values(t *testing.T) {
	data := []byte(`
partial_prefix: ""
partial_suffix: "-partial"
component_suffix: View
max_depth: 5
components: [Card]
symbols: [Helper]
cache:
  driver: postgres
  dsn: postgres://localhost/theo
  table_prefix: app_
  ttl: 10m
  max_entries: 10
`)

	config, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, "", config.PartialPrefix)
	assert.Equal(t, "-partial", config.PartialSuffix)
	assert.Equal(t, "View", config.ComponentSuffix)
	assert.Equal(t, 5, config.MaxDepth)
	assert.Equal(t, []string{"Card"}, config.Components)
	assert.Equal(t, []string{"Helper"}, config.Symbols)
	assert.Equal(t, CacheConfig{
		Driver:      CacheDriverNamePostgres,
		DSN:         "postgres://localhost/theo",
		TablePrefix: "app_",
		TTL:         10 * time.Minute,
		MaxEntries:  10,
	}, config.Cache)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("max_depth: [1"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeConfig, ErrorCode(err))
	assert.Contains(t, err.Error(), ErrMsgConfigParseFailed)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("component_suffix: View\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "View", config.ComponentSuffix)
	assert.Equal(t, DefaultPartialPrefix, config.PartialPrefix)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgConfigReadFailed)
}

func TestConfig_NewEngine(t *testing.T) {
	config, err := ParseConfig([]byte("partial_suffix: \"-partial\"\ncomponents: [Card]\nmax_depth: 2\n"))
	require.NoError(t, err)

	engine, err := config.NewEngine(nil)
	require.NoError(t, err)
	require.NotNil(t, engine.Registry())
	assert.Equal(t, 2, engine.MaxDepth())

	out, err := engine.Process(`<row-partial/><_cell/><Card/>`)
	require.NoError(t, err)
	assert.Equal(t,
		`<%= render partial: 'row', locals: {} %><%= render partial: 'cell', locals: {} %><%= render Card.new() %>`,
		out)
}

func TestConfig_NewEngine_NoRegistry(t *testing.T) {
	engine, err := DefaultConfig().NewEngine(nil)
	require.NoError(t, err)
	assert.Nil(t, engine.Registry())
}

func TestConfig_NewEngine_Invalid(t *testing.T) {
	config := DefaultConfig()
	config.MaxDepth = -1

	_, err := config.NewEngine(nil)
	require.Error(t, err)
	assert.Equal(t, ErrCodeConfig, ErrorCode(err))

	config = DefaultConfig()
	config.Components = []string{"Card", "Card"}
	_, err = config.NewEngine(nil)
	require.Error(t, err)
	assert.Equal(t, ErrCodeRegistry, ErrorCode(err))
}
