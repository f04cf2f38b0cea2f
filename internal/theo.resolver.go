package internal

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// SymbolTable answers whether a component class can be rendered.
// The root package adapts its ComponentRegistry to this interface.
type SymbolTable interface {
	// Exists reports whether the name is defined
	Exists(name string) bool
	// IsComponent reports whether the name is defined and renderable as a component
	IsComponent(name string) bool
}

// TargetKind identifies what a dialect tag renders
type TargetKind int

// Target kind constants
const (
	TargetPartial TargetKind = iota
	TargetComponent
)

// Target kind names for debugging
const (
	TargetKindNamePartial   = "partial"
	TargetKindNameComponent = "component"
)

// String returns the target kind name
func (k TargetKind) String() string {
	if k == TargetComponent {
		return TargetKindNameComponent
	}
	return TargetKindNamePartial
}

// RenderTarget is the resolved partial path or component class of a dialect tag
type RenderTarget struct {
	Kind      TargetKind
	Path      string // Directory prefix for partials, may be empty
	Name      string // Partial name in snake_case
	ClassName string // Component class reference
}

// PartialPath returns the path passed to render for partial targets
func (t RenderTarget) PartialPath() string {
	if t.Path == StringValueEmpty {
		return t.Name
	}
	return strings.TrimSuffix(t.Path, ErbPathSep) + ErbPathSep + t.Name
}

// String returns the rendered reference
func (t RenderTarget) String() string {
	if t.Kind == TargetComponent {
		return t.ClassName
	}
	return t.PartialPath()
}

// Resolver maps dialect tags to render targets
type Resolver struct {
	symbols SymbolTable
	dialect DialectConfig
	logger  *zap.Logger
}

// NewResolver creates a resolver. A nil symbol table means component
// lookups are unavailable and every component resolves by suffix fallback.
func NewResolver(symbols SymbolTable, dialect DialectConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		symbols: symbols,
		dialect: dialect,
		logger:  logger,
	}
}

// Resolve returns the render target of a dialect tag
func (r *Resolver) Resolve(tag *TagNode) RenderTarget {
	var target RenderTarget
	if tag.Family == FamilyComponent {
		target = r.resolveComponent(tag.Name)
	} else {
		path, _ := tag.Attributes.Special(SpecialAttrPath)
		target = RenderTarget{
			Kind: TargetPartial,
			Path: path,
			Name: Underscore(r.dialect.StripPartialMarkers(tag.Name)),
		}
	}

	r.logger.Debug(LogMsgTargetResolved,
		zap.String(LogFieldTag, tag.Name),
		zap.String(LogFieldKind, target.Kind.String()),
		zap.String(LogFieldTarget, target.String()))
	return target
}

// resolveComponent tries the name itself, then name+suffix, and falls back
// to name+suffix without verification
func (r *Resolver) resolveComponent(name string) RenderTarget {
	suffixed := name
	if r.dialect.ComponentSuffix != StringValueEmpty && !strings.HasSuffix(name, r.dialect.ComponentSuffix) {
		suffixed = name + r.dialect.ComponentSuffix
	}

	if r.symbols != nil {
		if r.symbols.Exists(name) && r.symbols.IsComponent(name) {
			return RenderTarget{Kind: TargetComponent, ClassName: name}
		}
		if r.symbols.Exists(suffixed) && r.symbols.IsComponent(suffixed) {
			return RenderTarget{Kind: TargetComponent, ClassName: suffixed}
		}
	}

	r.logger.Debug(LogMsgComponentFallback,
		zap.String(LogFieldTag, name),
		zap.String(LogFieldTarget, suffixed))
	return RenderTarget{Kind: TargetComponent, ClassName: suffixed}
}

var (
	underscoreAcronym = regexp.MustCompile(`([A-Z\d]+)([A-Z][a-z])`)
	underscoreWord    = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// Underscore converts a CamelCase name to snake_case, '-' to '_' and
// namespace separators to path separators: "Admin::UserCard" -> "admin/user_card"
func Underscore(s string) string {
	s = strings.ReplaceAll(s, ErbNamespaceSep, ErbPathSep)
	s = underscoreAcronym.ReplaceAllString(s, "${1}_${2}")
	s = underscoreWord.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, string(CharHyphen), string(CharUnderscore))
	return strings.ToLower(s)
}
