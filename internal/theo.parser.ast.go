package internal

import (
	"fmt"
	"strings"
)

// Node is the interface all AST nodes implement
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// RootNode is the top-level container for an AST
type RootNode struct {
	Children []Node
}

// Type returns NodeTypeRoot
func (n *RootNode) Type() NodeType {
	return NodeTypeRoot
}

// Pos returns a zero position (root has no specific position)
func (n *RootNode) Pos() Position {
	return Position{Offset: 0, Line: 1, Column: 1}
}

// String returns a string representation of the root node
func (n *RootNode) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// TextNode is source copied to the output unchanged: plain text, ERB
// directives, comments and closing tags that belong to no block.
type TextNode struct {
	pos     Position
	Content string
}

// Type returns NodeTypeText
func (n *TextNode) Type() NodeType {
	return NodeTypeText
}

// Pos returns the source position
func (n *TextNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *TextNode) String() string {
	content := n.Content
	if len(content) > MaxStringDisplayLength {
		content = content[:TruncatedStringLength] + TruncationSuffix
	}
	return fmt.Sprintf("TextNode{%q @ %s}", content, n.pos)
}

// NewTextNode creates a new text node
func NewTextNode(content string, pos Position) *TextNode {
	return &TextNode{
		pos:     pos,
		Content: content,
	}
}

// TagFamily classifies a tag by what the emitter does with it
type TagFamily int

// Tag family constants
const (
	FamilyPlain TagFamily = iota
	FamilyPartial
	FamilyComponent
)

// Tag family names for debugging
const (
	FamilyNamePlain     = "plain"
	FamilyNamePartial   = "partial"
	FamilyNameComponent = "component"
)

// String returns the family name
func (f TagFamily) String() string {
	switch f {
	case FamilyPartial:
		return FamilyNamePartial
	case FamilyComponent:
		return FamilyNameComponent
	default:
		return FamilyNamePlain
	}
}

// IsDialect reports whether the family renders through a partial or component call
func (f TagFamily) IsDialect() bool {
	return f == FamilyPartial || f == FamilyComponent
}

// TagNode represents a start tag and, for block forms, its content and closing tag.
//
// The open tag source is kept as Head + attributes (Lead + Raw each) + Tail,
// which concatenate back to the original text when no attribute is rewritten.
type TagNode struct {
	pos        Position
	Name       string     // Tag name as written
	Family     TagFamily  // Plain markup, partial or component
	Attributes Attributes // Attributes in source order
	Children   []Node     // Content for block forms
	SelfClose  bool       // Written as <name ... />
	Block      bool       // Matched with a closing tag
	Head       string     // "<" + name
	Tail       string     // Whitespace plus ">" or "/>"
	CloseRaw   string     // Closing tag source for block forms
}

// Type returns NodeTypeElement
func (n *TagNode) Type() NodeType {
	return NodeTypeElement
}

// Pos returns the source position
func (n *TagNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *TagNode) String() string {
	if n.Block {
		return fmt.Sprintf("TagNode{%s, %s, block, attrs=%s, children=%d @ %s}",
			n.Name, n.Family, n.Attributes, len(n.Children), n.pos)
	}
	return fmt.Sprintf("TagNode{%s, %s, attrs=%s @ %s}", n.Name, n.Family, n.Attributes, n.pos)
}

// IsDialect reports whether the tag is a partial or component tag
func (n *TagNode) IsDialect() bool {
	return n.Family.IsDialect()
}

// NewTagNode creates a tag node without content
func NewTagNode(name string, family TagFamily, attrs Attributes, pos Position) *TagNode {
	return &TagNode{
		pos:        pos,
		Name:       name,
		Family:     family,
		Attributes: attrs,
		Head:       StrTagOpen + name,
		Tail:       StrTagClose,
	}
}

// ConditionalNode wraps a tag that carried a %if attribute
type ConditionalNode struct {
	pos       Position
	Condition string   // Host-language expression, verbatim
	Child     *TagNode // The wrapped tag, %if removed
}

// Type returns NodeTypeConditional
func (n *ConditionalNode) Type() NodeType {
	return NodeTypeConditional
}

// Pos returns the source position
func (n *ConditionalNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *ConditionalNode) String() string {
	return fmt.Sprintf("ConditionalNode{if(%s) %s @ %s}", n.Condition, n.Child, n.pos)
}

// NewConditionalNode creates a new conditional node
func NewConditionalNode(condition string, child *TagNode, pos Position) *ConditionalNode {
	return &ConditionalNode{
		pos:       pos,
		Condition: condition,
		Child:     child,
	}
}

// AttrKind classifies an attribute by how it was written
type AttrKind int

// Attribute kind constants
const (
	AttrLiteral   AttrKind = iota // name="value"
	AttrBoolean                   // name
	AttrDynamic                   // name%="expr"
	AttrShorthand                 // name%
	AttrSpecial                   // %name="value"
	AttrDirective                 // <%= ... %> inside the attribute list
)

// Attribute kind names for debugging
const (
	AttrKindNameLiteral   = "literal"
	AttrKindNameBoolean   = "boolean"
	AttrKindNameDynamic   = "dynamic"
	AttrKindNameShorthand = "shorthand"
	AttrKindNameSpecial   = "special"
	AttrKindNameDirective = "directive"
)

// String returns the kind name
func (k AttrKind) String() string {
	switch k {
	case AttrBoolean:
		return AttrKindNameBoolean
	case AttrDynamic:
		return AttrKindNameDynamic
	case AttrShorthand:
		return AttrKindNameShorthand
	case AttrSpecial:
		return AttrKindNameSpecial
	case AttrDirective:
		return AttrKindNameDirective
	default:
		return AttrKindNameLiteral
	}
}

// AttributeNode is a single attribute of a tag
type AttributeNode struct {
	Name  string   // Attribute name without sigils
	Value string   // Literal value, expression source or directive text
	Kind  AttrKind // How the attribute was written
	Lead  string   // Whitespace preceding the attribute
	Raw   string   // Attribute source as written
	Pos   Position
}

// String returns a compact representation
func (a *AttributeNode) String() string {
	switch a.Kind {
	case AttrBoolean, AttrShorthand:
		return a.Name + "(" + a.Kind.String() + ")"
	case AttrDirective:
		return a.Kind.String() + FmtKeyValueSep + fmt.Sprintf("%q", a.Value)
	default:
		return a.Name + "(" + a.Kind.String() + ")" + FmtKeyValueSep + fmt.Sprintf("%q", a.Value)
	}
}

// Attributes is an ordered attribute list
type Attributes []*AttributeNode

// Get returns the last attribute with the given name and kind
func (a Attributes) Get(name string, kind AttrKind) (*AttributeNode, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Name == name && a[i].Kind == kind {
			return a[i], true
		}
	}
	return nil, false
}

// Special returns the value of the last %name attribute
func (a Attributes) Special(name string) (string, bool) {
	attr, ok := a.Get(name, AttrSpecial)
	if !ok {
		return StringValueEmpty, false
	}
	return attr.Value, true
}

// HasSpecial checks if a %name attribute is present
func (a Attributes) HasSpecial(name string) bool {
	_, ok := a.Get(name, AttrSpecial)
	return ok
}

// HasKind reports whether any attribute is of the given kind
func (a Attributes) HasKind(kind AttrKind) bool {
	for _, attr := range a {
		if attr.Kind == kind {
			return true
		}
	}
	return false
}

// Without returns the attributes minus every entry for which drop returns true
func (a Attributes) Without(drop func(*AttributeNode) bool) Attributes {
	out := make(Attributes, 0, len(a))
	for _, attr := range a {
		if !drop(attr) {
			out = append(out, attr)
		}
	}
	return out
}

// Names returns attribute names in source order, duplicates included
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for _, attr := range a {
		names = append(names, attr.Name)
	}
	return names
}

// String returns a string representation of the attributes
func (a Attributes) String() string {
	if len(a) == 0 {
		return FmtEmptyBraces
	}
	parts := make([]string, 0, len(a))
	for _, attr := range a {
		parts = append(parts, attr.String())
	}
	return FmtOpenBrace + strings.Join(parts, FmtCommaSep) + FmtCloseBrace
}

// WalkTags calls fn for every tag in nodes, parents before children.
// Tags wrapped in a ConditionalNode are visited too.
func WalkTags(nodes []Node, fn func(*TagNode)) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *TagNode:
			fn(n)
			WalkTags(n.Children, fn)
		case *ConditionalNode:
			fn(n.Child)
			WalkTags(n.Child.Children, fn)
		}
	}
}
