package internal

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// DialectConfig holds the naming conventions that classify tags
type DialectConfig struct {
	PartialPrefix   string // Marker opening a partial tag name (default: "_")
	PartialSuffix   string // Marker closing a partial tag name (default: disabled)
	ComponentSuffix string // Appended when resolving component names (default: "Component")
	MaxDepth        int    // Maximum dialect nesting depth, 0 for unlimited
}

// DefaultDialectConfig returns the default dialect configuration
func DefaultDialectConfig() DialectConfig {
	return DialectConfig{
		PartialPrefix:   DefaultPartialPrefix,
		PartialSuffix:   DefaultPartialSuffix,
		ComponentSuffix: DefaultComponentSuffix,
	}
}

// Family classifies a tag name
func (c DialectConfig) Family(name string) TagFamily {
	if c.isPartial(name) {
		return FamilyPartial
	}
	if name != "" && isUpper(name[0]) {
		return FamilyComponent
	}
	return FamilyPlain
}

func (c DialectConfig) isPartial(name string) bool {
	if c.PartialPrefix != "" && len(name) > len(c.PartialPrefix) && strings.HasPrefix(name, c.PartialPrefix) {
		return true
	}
	return c.PartialSuffix != "" && len(name) > len(c.PartialSuffix) && strings.HasSuffix(name, c.PartialSuffix)
}

// StripPartialMarkers removes the partial prefix or suffix from a tag name
func (c DialectConfig) StripPartialMarkers(name string) string {
	if c.PartialPrefix != "" && strings.HasPrefix(name, c.PartialPrefix) {
		return strings.TrimPrefix(name, c.PartialPrefix)
	}
	if c.PartialSuffix != "" {
		return strings.TrimSuffix(name, c.PartialSuffix)
	}
	return name
}

// voidElements are the HTML elements that never have a closing tag
var voidElements = map[atom.Atom]struct{}{
	atom.Area:   {},
	atom.Base:   {},
	atom.Br:     {},
	atom.Col:    {},
	atom.Embed:  {},
	atom.Hr:     {},
	atom.Img:    {},
	atom.Input:  {},
	atom.Link:   {},
	atom.Meta:   {},
	atom.Param:  {},
	atom.Source: {},
	atom.Track:  {},
	atom.Wbr:    {},
}

// IsVoidElement reports whether name is an HTML void element
func IsVoidElement(name string) bool {
	a := atom.Lookup([]byte(strings.ToLower(name)))
	if a == 0 {
		return false
	}
	_, ok := voidElements[a]
	return ok
}
