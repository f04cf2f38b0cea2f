package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEmitter_NonDialectInputUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		`<div class="a"><p>Hi</p></div>`,
		"<% if x %><b>y</b><% end %>",
		"a < b && c > d",
		"<!-- <_partial/> -->",
		"<script>if (a<b) { run() }</script>",
		`<input type=checkbox checked>`,
		`<div   id = "x" ></div >`,
		`<a href='x' data-y="<%= y %>">z</a>`,
		`<input <%= attrs %>>`,
		`<div class="a>broken`,
		"<ul>\n  <li>one</li>\n  <li>two</li>\n</ul>\n",
		`<svg:rect x="1"/>`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, input, process(t, input))
		})
	}
}

func TestEmitter_SpecialAttributeWithoutValueUnchanged(t *testing.T) {
	inputs := []string{
		`<div %if>x</div>`,
		`<img src="x" %if>`,
		`<_card %collection/>`,
		`<_card %yields>x</_card>`,
		`<Card %as/>`,
		`<_card %if=""/>`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, input, process(t, input))
		})
	}
}

func TestEmitter_DirectiveInDialectTag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "self-closing partial",
			input:    `<_card <%= attrs %>/>`,
			expected: `<_card <%= attrs %>/>`,
		},
		{
			name:     "block component",
			input:    `<Card a="1" <%= attrs %>>x</Card>`,
			expected: `<Card a="1" <%= attrs %>>x</Card>`,
		},
		{
			name:     "content is still rewritten",
			input:    `<_card <%= attrs %>><_row/></_card>`,
			expected: `<_card <%= attrs %>><%= render partial: 'row', locals: {} %></_card>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := process(t, tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmitter_Partials(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "self-closing without attributes",
			input:    `<_partial/>`,
			expected: `<%= render partial: 'partial', locals: {} %>`,
		},
		{
			name:     "self-closing with whitespace",
			input:    `<_partial />`,
			expected: `<%= render partial: 'partial', locals: {} %>`,
		},
		{
			name:     "literal attributes keep order",
			input:    `<_partial attr1="value1" attr2="value2"/>`,
			expected: `<%= render partial: 'partial', locals: {'attr1': 'value1', 'attr2': 'value2'} %>`,
		},
		{
			name:     "dynamic attribute is not quoted",
			input:    `<_partial attr1%="1 + 1"/>`,
			expected: `<%= render partial: 'partial', locals: {'attr1': 1 + 1} %>`,
		},
		{
			name:     "boolean attribute",
			input:    `<_partial attr/>`,
			expected: `<%= render partial: 'partial', locals: {'attr': ''} %>`,
		},
		{
			name:     "shorthand attribute",
			input:    `<_partial user%/>`,
			expected: `<%= render partial: 'partial', locals: {'user': user} %>`,
		},
		{
			name:     "bare interpolation value",
			input:    `<_partial user="<%= current_user %>"/>`,
			expected: `<%= render partial: 'partial', locals: {'user': current_user} %>`,
		},
		{
			name:     "quote escaping",
			input:    `<_partial title="it's a \ path"/>`,
			expected: `<%= render partial: 'partial', locals: {'title': 'it\'s a \\ path'} %>`,
		},
		{
			name:     "collection with alias",
			input:    `<_partial %collection="items" %as="item"/>`,
			expected: `<%= render partial: 'partial', collection: items, as: 'item' %>`,
		},
		{
			name:     "collection with locals",
			input:    `<_partial %collection="@items" size="s"/>`,
			expected: `<%= render partial: 'partial', collection: @items, locals: {'size': 's'} %>`,
		},
		{
			name:     "path prefix",
			input:    `<_partial %path="shared/cards"/>`,
			expected: `<%= render partial: 'shared/cards/partial', locals: {} %>`,
		},
		{
			name:     "camel case name",
			input:    `<_UserCard/>`,
			expected: `<%= render partial: 'user_card', locals: {} %>`,
		},
		{
			name:     "dashed name",
			input:    `<_user-card/>`,
			expected: `<%= render partial: 'user_card', locals: {} %>`,
		},
		{
			name:     "block",
			input:    `<_partial>Content</_partial>`,
			expected: `<%= render 'partial' do %>Content<% end %>`,
		},
		{
			name:     "block with locals and yields",
			input:    `<_partial a="b" %yields="item">Content <%= item %></_partial>`,
			expected: `<%= render 'partial', {'a': 'b'} do |item| %>Content <%= item %><% end %>`,
		},
		{
			name:     "nested dialect tags are rewritten",
			input:    `<_outer><_inner x%="1"/></_outer>`,
			expected: `<%= render 'outer' do %><%= render partial: 'inner', locals: {'x': 1} %><% end %>`,
		},
		{
			name:     "same-named nesting",
			input:    `<_card><_card>in</_card></_card>`,
			expected: `<%= render 'card' do %><%= render 'card' do %>in<% end %><% end %>`,
		},
		{
			name:     "inside ERB loop",
			input:    `<% items.each do |i| %><_row item%="i"/><% end %>`,
			expected: `<% items.each do |i| %><%= render partial: 'row', locals: {'item': i} %><% end %>`,
		},
		{
			name:     "duplicate local keeps first position",
			input:    `<_partial a="1" b="2" a="3"/>`,
			expected: `<%= render partial: 'partial', locals: {'a': '3', 'b': '2'} %>`,
		},
		{
			name:     "unknown special attribute is dropped",
			input:    `<_partial %foo="bar"/>`,
			expected: `<%= render partial: 'partial', locals: {} %>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := process(t, tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmitter_Components(t *testing.T) {
	registry := fakeSymbols{
		"Button":        true,
		"CardComponent": true,
		"Helper":        false,
	}

	tests := []struct {
		name     string
		input    string
		symbols  SymbolTable
		expected string
	}{
		{
			name:     "fallback without registry",
			input:    `<Widget/>`,
			expected: `<%= render WidgetComponent.new() %>`,
		},
		{
			name:     "fallback with registry miss",
			input:    `<Widget/>`,
			symbols:  registry,
			expected: `<%= render WidgetComponent.new() %>`,
		},
		{
			name:     "exact registry match",
			input:    `<Button label="Save" disabled/>`,
			symbols:  registry,
			expected: `<%= render Button.new('label': 'Save', 'disabled': '') %>`,
		},
		{
			name:     "suffixed registry match",
			input:    `<Card title%="@post.title"/>`,
			symbols:  registry,
			expected: `<%= render CardComponent.new('title': @post.title) %>`,
		},
		{
			name:     "defined but not a component",
			input:    `<Helper/>`,
			symbols:  registry,
			expected: `<%= render HelperComponent.new() %>`,
		},
		{
			name:     "suffix is not doubled",
			input:    `<CardComponent/>`,
			expected: `<%= render CardComponent.new() %>`,
		},
		{
			name:     "namespaced",
			input:    `<Admin::Badge/>`,
			expected: `<%= render Admin::BadgeComponent.new() %>`,
		},
		{
			name:     "collection",
			input:    `<Widget %collection="items" size="s"/>`,
			expected: `<%= render WidgetComponent.with_collection(items, 'size': 's') %>`,
		},
		{
			name:     "collection without locals",
			input:    `<Widget %collection="items" %as="w"/>`,
			expected: `<%= render WidgetComponent.with_collection(items) %>`,
		},
		{
			name:     "block with yields",
			input:    `<Card %yields="card">Body</Card>`,
			expected: `<%= render CardComponent.new() do |card| %>Body<% end %>`,
		},
		{
			name:     "block containing a partial",
			input:    `<Card a="1"><_row/></Card>`,
			expected: `<%= render CardComponent.new('a': '1') do %><%= render partial: 'row', locals: {} %><% end %>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runPipeline(tt.input, tt.symbols, DefaultDialectConfig())
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmitter_DynamicAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "shorthand",
			input:    `<a href%>x</a>`,
			expected: `<a href="<%= href %>">x</a>`,
		},
		{
			name:     "reserved word shorthand",
			input:    `<div class%>x</div>`,
			expected: `<div class="<%= binding.local_variable_get('class') %>">x</div>`,
		},
		{
			name:     "expression with percent and quotes",
			input:    `<a href%="2 % 2 == 0 ? '/even' : '/odd'">x</a>`,
			expected: `<a href="<%= 2 % 2 == 0 ? '/even' : '/odd' %>">x</a>`,
		},
		{
			name:     "other attributes untouched",
			input:    `<input type="text"   value%="@name" required>`,
			expected: `<input type="text"   value="<%= @name %>" required>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, process(t, tt.input))
		})
	}
}

func TestEmitter_Conditionals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "element",
			input:    `<span %if="true">Text</span>`,
			expected: "<% if true %>\n<span>Text</span>\n<% end %>",
		},
		{
			name:     "other attributes kept",
			input:    `<span class="a" %if="user.admin?" id="b">Text</span>`,
			expected: "<% if user.admin? %>\n<span class=\"a\" id=\"b\">Text</span>\n<% end %>",
		},
		{
			name:     "void element",
			input:    `<br %if="x">after`,
			expected: "<% if x %>\n<br>\n<% end %>after",
		},
		{
			name:     "self-closing partial",
			input:    `<_p %if="show"/>`,
			expected: "<% if show %>\n<%= render partial: 'p', locals: {} %>\n<% end %>",
		},
		{
			name:     "block component",
			input:    `<Card %if="c">x</Card>`,
			expected: "<% if c %>\n<%= render CardComponent.new() do %>x<% end %>\n<% end %>",
		},
		{
			name:     "nested same-name element",
			input:    `<div %if="a"><div>in</div></div>`,
			expected: "<% if a %>\n<div><div>in</div></div>\n<% end %>",
		},
		{
			name:     "nested conditionals",
			input:    `<ul %if="a"><li %if="b">x</li></ul>`,
			expected: "<% if a %>\n<ul><% if b %>\n<li>x</li>\n<% end %></ul>\n<% end %>",
		},
		{
			name:     "void element with other attributes",
			input:    `<img src="x" %if="ok">`,
			expected: "<% if ok %>\n<img src=\"x\">\n<% end %>",
		},
		{
			name:     "unclosed element left untouched",
			input:    `<div %if="x">text`,
			expected: `<div %if="x">text`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := process(t, tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmitter_LiteralYieldsIsUsageError(t *testing.T) {
	inputs := []string{
		`<_partial yields="item">Content</_partial>`,
		`<Card yields>Content</Card>`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := runPipeline(input, nil, DefaultDialectConfig())
			require.Error(t, err)

			var usageErr *UsageError
			require.ErrorAs(t, err, &usageErr)
			assert.Equal(t, SpecialAttrYields, usageErr.Attribute)
			assert.Equal(t, 1, usageErr.Position.Line)
		})
	}
}

func TestEmitter_LiteralYieldsOnPlainTagIsKept(t *testing.T) {
	input := `<div yields="x">y</div>`
	assert.Equal(t, input, process(t, input))
}

func TestLocals(t *testing.T) {
	var locals Locals
	assert.Equal(t, "{}", locals.Map())

	assert.False(t, locals.Set("a", "1"))
	assert.False(t, locals.Set("b", "'x'"))
	assert.True(t, locals.Set("a", "2"))

	assert.Equal(t, "'a': 2, 'b': 'x'", locals.String())
	assert.Equal(t, "{'a': 2, 'b': 'x'}", locals.Map())
}

func TestEmitter_LogsMixedValue(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	source := `<_card title="<%= a %> and <%= b %>" id="<%= c %>"/>`
	root := parseSource(t, source, DefaultDialectConfig())
	_, err := NewEmitter(NewResolver(nil, DefaultDialectConfig(), logger), logger).Emit(root)
	require.NoError(t, err)

	entries := logs.FilterMessage(LogMsgMixedValue).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "title", entries[0].ContextMap()[LogFieldAttribute])
}
