package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShorthandExpression(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{name: "href", expected: "href"},
		{name: "user_id", expected: "user_id"},
		{name: "class", expected: "binding.local_variable_get('class')"},
		{name: "if", expected: "binding.local_variable_get('if')"},
		{name: "end", expected: "binding.local_variable_get('end')"},
		{name: "__FILE__", expected: "binding.local_variable_get('__FILE__')"},
		{name: "Class", expected: "Class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShorthandExpression(tt.name))
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	root := parseSource(t, `<div title%><_card class%>x</_card></div>`, DefaultDialectConfig())
	NewNormalizer(zap.NewNop()).Normalize(root)

	var seen []*AttributeNode
	WalkTags(root.Children, func(tag *TagNode) {
		seen = append(seen, tag.Attributes...)
	})

	require.Len(t, seen, 2)
	for _, attr := range seen {
		assert.Equal(t, AttrDynamic, attr.Kind)
	}
	assert.Equal(t, "title", seen[0].Value)
	assert.Equal(t, "binding.local_variable_get('class')", seen[1].Value)
}

func TestNormalizer_NoShorthandIsNoop(t *testing.T) {
	input := `<div title="a" data-x>y</div>`
	root := parseSource(t, input, DefaultDialectConfig())
	NewNormalizer(nil).Normalize(root)

	tag := root.Children[0].(*TagNode)
	assert.Equal(t, AttrLiteral, tag.Attributes[0].Kind)
	assert.Equal(t, AttrBoolean, tag.Attributes[1].Kind)
	assert.Equal(t, input, process(t, input))
}
