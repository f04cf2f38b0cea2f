// Package theo rewrites Theo markup into ERB.
//
// Theo is HTML with three additions: partial tags, component tags and
// sigil attributes. The engine turns them into ERB render calls and
// output directives and copies everything else through unchanged:
//
//	<_card title="Hi" user%="@user"/>
//	<%= render partial: 'card', locals: {'title': 'Hi', 'user': @user} %>
//
// # Basic Usage
//
//	engine := theo.MustNew()
//	erb, err := engine.Process(`<Button label="Save"/>`)
//	// erb: <%= render ButtonComponent.new('label': 'Save') %>
//
// # Dialect
//
// Partial tags start with "_" and render a partial named in snake_case:
//
//	<_user-card/>                         render partial: 'user_card'
//	<_row %path="admin"/>                 render partial: 'admin/row'
//	<_row %collection="rows" %as="r"/>    render partial: 'row', collection: rows, as: 'r'
//	<_panel %yields="p">...</_panel>      render 'panel' do |p| ... end
//
// Tags starting with an uppercase letter render components. Card resolves
// to Card when the registry knows it as a component, then to CardComponent,
// and without a match falls back to CardComponent unverified.
//
// Attributes:
//
//	name="text"      string literal
//	name%="expr"     expression, also on plain HTML tags
//	name%            shorthand for name%="name"
//	%if="expr"       wraps the element in <% if expr %> ... <% end %>
//
// A dynamic class or style next to a literal one of the same name is merged
// into a single expression.
//
// # Configuration
//
// Customize the engine with functional options:
//
//	registry := theo.NewStaticRegistry(logger)
//	_ = registry.RegisterComponents("Card", "ModalComponent")
//
//	engine, _ := theo.New(
//	    theo.WithRegistry(registry),
//	    theo.WithPartialMarkers("_", ""),
//	    theo.WithMaxDepth(32),
//	    theo.WithLogger(logger),
//	)
//
// # Compile Cache
//
// CachedEngine keys compiled output by an xxhash digest of the engine
// fingerprint and the source, backed by a MemoryCache or a PostgresCache,
// and opens an OpenTelemetry span per compile:
//
//	cache, _ := theo.OpenCache(theo.CacheConfig{Driver: "memory"}, logger)
//	compiler := theo.NewCachedEngine(engine, cache)
//	erb, err := compiler.Compile(ctx, "users/show.html.theo", source)
package theo
