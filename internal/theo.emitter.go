package internal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Emitter generates ERB from a processed AST.
//
// Plain tags are written back from their source pieces, so regions without
// dialect markup come out byte-identical. Dialect tags become render calls.
type Emitter struct {
	resolver *Resolver
	logger   *zap.Logger
}

// NewEmitter creates a new emitter
func NewEmitter(resolver *Resolver, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{
		resolver: resolver,
		logger:   logger,
	}
}

// Emit renders the tree
func (e *Emitter) Emit(root *RootNode) (string, error) {
	e.logger.Debug(LogMsgEmitterStart, zap.Int(LogFieldNodes, len(root.Children)))

	var sb strings.Builder
	if err := e.emitNodes(&sb, root.Children); err != nil {
		return StringValueEmpty, err
	}

	e.logger.Debug(LogMsgEmitterEnd, zap.Int(LogFieldOutput, sb.Len()))
	return sb.String(), nil
}

func (e *Emitter) emitNodes(sb *strings.Builder, nodes []Node) error {
	for _, node := range nodes {
		switch n := node.(type) {
		case *TextNode:
			sb.WriteString(n.Content)
		case *TagNode:
			if err := e.emitTag(sb, n); err != nil {
				return err
			}
		case *ConditionalNode:
			sb.WriteString(ErbStmtOpen)
			sb.WriteString(ErbIf)
			sb.WriteString(n.Condition)
			sb.WriteString(ErbClose)
			sb.WriteByte(CharNewline)
			if err := e.emitTag(sb, n.Child); err != nil {
				return err
			}
			sb.WriteByte(CharNewline)
			sb.WriteString(ErbEnd)
		}
	}
	return nil
}

func (e *Emitter) emitTag(sb *strings.Builder, tag *TagNode) error {
	if tag.IsDialect() {
		return e.emitRender(sb, tag)
	}
	return e.emitElement(sb, tag)
}

// emitElement writes a plain tag back, expanding dynamic attributes
func (e *Emitter) emitElement(sb *strings.Builder, tag *TagNode) error {
	sb.WriteString(tag.Head)
	for _, attr := range tag.Attributes {
		sb.WriteString(attr.Lead)
		sb.WriteString(renderAttribute(attr))
	}
	sb.WriteString(tag.Tail)

	if !tag.Block {
		return nil
	}
	if err := e.emitNodes(sb, tag.Children); err != nil {
		return err
	}
	sb.WriteString(tag.CloseRaw)
	return nil
}

// renderAttribute returns the markup of an attribute on a plain tag
func renderAttribute(attr *AttributeNode) string {
	if attr.Kind != AttrDynamic {
		return attr.Raw
	}
	return attr.Name + string(CharEquals) + string(CharDoubleQuote) +
		ErbOutputOpen + attr.Value + ErbClose + string(CharDoubleQuote)
}

// renderCall collects everything a render directive needs
type renderCall struct {
	target        RenderTarget
	locals        Locals
	collection    string
	hasCollection bool
	as            string
	hasAs         bool
	yields        string
	hasYields     bool
}

// emitRender writes the render directive for a partial or component tag
func (e *Emitter) emitRender(sb *strings.Builder, tag *TagNode) error {
	call, err := e.collect(tag)
	if err != nil {
		return err
	}

	if call.target.Kind == TargetComponent {
		e.writeComponentCall(sb, tag, call)
	} else {
		e.writePartialCall(sb, tag, call)
	}

	if !tag.Block {
		return nil
	}
	if err := e.emitNodes(sb, tag.Children); err != nil {
		return err
	}
	sb.WriteString(ErbEnd)
	return nil
}

// collect splits a dialect tag's attributes into locals and control values
func (e *Emitter) collect(tag *TagNode) (renderCall, error) {
	call := renderCall{target: e.resolver.Resolve(tag)}

	for _, attr := range tag.Attributes {
		switch attr.Kind {
		case AttrSpecial:
			e.collectSpecial(tag, attr, &call)
		default:
			if attr.Name == SpecialAttrYields && (attr.Kind == AttrLiteral || attr.Kind == AttrBoolean) {
				return renderCall{}, &UsageError{
					Message:   ErrMsgLiteralYields,
					TagName:   tag.Name,
					Attribute: attr.Name,
					Position:  attr.Pos,
				}
			}
			if attr.Kind == AttrLiteral && MixesDirectives(attr.Value) {
				e.logger.Debug(LogMsgMixedValue,
					zap.String(LogFieldTag, tag.Name),
					zap.String(LogFieldAttribute, attr.Name),
					zap.Int(LogFieldLine, attr.Pos.Line))
			}
			if call.locals.Set(attr.Name, ValueExpression(attr)) {
				e.logger.Warn(LogMsgAttributeCollision,
					zap.String(LogFieldTag, tag.Name),
					zap.String(LogFieldAttribute, attr.Name),
					zap.Int(LogFieldLine, attr.Pos.Line))
			}
		}
	}

	return call, nil
}

func (e *Emitter) collectSpecial(tag *TagNode, attr *AttributeNode, call *renderCall) {
	switch attr.Name {
	case SpecialAttrCollection:
		call.collection, call.hasCollection = attr.Value, true
	case SpecialAttrAs:
		call.as, call.hasAs = attr.Value, true
	case SpecialAttrYields:
		call.yields, call.hasYields = attr.Value, true
	case SpecialAttrPath:
		// Consumed by the resolver
	default:
		e.ignore(tag, attr.Name)
	}
}

func (e *Emitter) ignore(tag *TagNode, name string) {
	e.logger.Debug(LogMsgAttributeIgnored,
		zap.String(LogFieldTag, tag.Name),
		zap.String(LogFieldAttribute, name))
}

// writePartialCall writes one of
//
//	<%= render partial: 'name', locals: {...} %>
//	<%= render partial: 'name', collection: items, as: 'item' %>
//	<%= render 'name', {...} do |y| %>
func (e *Emitter) writePartialCall(sb *strings.Builder, tag *TagNode, call renderCall) {
	name := RubyString(call.target.PartialPath())

	sb.WriteString(ErbOutputOpen)
	sb.WriteString(ErbRender)
	sb.WriteByte(CharSpace)

	if tag.Block {
		if call.hasCollection {
			e.ignore(tag, SpecialAttrCollection)
		}
		if call.hasAs {
			e.ignore(tag, SpecialAttrAs)
		}
		sb.WriteString(name)
		if len(call.locals) > 0 {
			sb.WriteString(ErbArgSep)
			sb.WriteString(call.locals.Map())
		}
		writeBlockOpen(sb, call)
		return
	}

	if call.hasYields {
		e.ignore(tag, SpecialAttrYields)
	}
	sb.WriteString(ErbPartialKey)
	sb.WriteString(name)
	if call.hasCollection {
		sb.WriteString(ErbArgSep)
		sb.WriteString(ErbCollection)
		sb.WriteString(call.collection)
		if call.hasAs {
			sb.WriteString(ErbArgSep)
			sb.WriteString(ErbAsKey)
			sb.WriteString(RubyString(call.as))
		}
		if len(call.locals) > 0 {
			sb.WriteString(ErbArgSep)
			sb.WriteString(ErbLocalsKey)
			sb.WriteString(call.locals.Map())
		}
	} else {
		if call.hasAs {
			e.ignore(tag, SpecialAttrAs)
		}
		sb.WriteString(ErbArgSep)
		sb.WriteString(ErbLocalsKey)
		sb.WriteString(call.locals.Map())
	}
	sb.WriteString(ErbClose)
}

// writeComponentCall writes one of
//
//	<%= render Klass.new(...) %>
//	<%= render Klass.with_collection(items, ...) %>
//	<%= render Klass.new(...) do |y| %>
func (e *Emitter) writeComponentCall(sb *strings.Builder, tag *TagNode, call renderCall) {
	if call.hasAs {
		e.ignore(tag, SpecialAttrAs)
	}
	if tag.Attributes.HasSpecial(SpecialAttrPath) {
		e.ignore(tag, SpecialAttrPath)
	}

	sb.WriteString(ErbOutputOpen)
	sb.WriteString(ErbRender)
	sb.WriteByte(CharSpace)
	sb.WriteString(call.target.ClassName)

	if call.hasCollection && !tag.Block {
		if call.hasYields {
			e.ignore(tag, SpecialAttrYields)
		}
		sb.WriteString(ErbWithColl)
		sb.WriteString(call.collection)
		if len(call.locals) > 0 {
			sb.WriteString(ErbArgSep)
			sb.WriteString(call.locals.String())
		}
		sb.WriteString(ErbCallClose)
		sb.WriteString(ErbClose)
		return
	}

	if call.hasCollection {
		e.ignore(tag, SpecialAttrCollection)
	}
	sb.WriteString(ErbNewCall)
	sb.WriteString(call.locals.String())
	sb.WriteString(ErbCallClose)
	if tag.Block {
		writeBlockOpen(sb, call)
		return
	}
	if call.hasYields {
		e.ignore(tag, SpecialAttrYields)
	}
	sb.WriteString(ErbClose)
}

// writeBlockOpen finishes a render call that takes a block: " do |y| %>"
func writeBlockOpen(sb *strings.Builder, call renderCall) {
	sb.WriteString(ErbDo)
	if call.hasYields {
		fmt.Fprintf(sb, ErbBlockArgFmt, call.yields)
	}
	sb.WriteString(ErbClose)
}

// Local is one entry of a locals map
type Local struct {
	Name string
	Expr string
}

// Locals is an insertion-ordered locals map
type Locals []Local

// Set adds or replaces a local. A replaced local keeps its first position;
// the return value reports whether a replacement happened.
func (l *Locals) Set(name, expr string) bool {
	for i := range *l {
		if (*l)[i].Name == name {
			(*l)[i].Expr = expr
			return true
		}
	}
	*l = append(*l, Local{Name: name, Expr: expr})
	return false
}

// String returns the entries as `'a': 1, 'b': 'x'`
func (l Locals) String() string {
	parts := make([]string, 0, len(l))
	for _, local := range l {
		parts = append(parts, fmt.Sprintf(ErbLocalKeyFmt, local.Name, local.Expr))
	}
	return strings.Join(parts, ErbArgSep)
}

// Map returns the entries as a hash literal, `{}` when empty
func (l Locals) Map() string {
	if len(l) == 0 {
		return ErbEmptyMap
	}
	return ErbMapOpen + l.String() + ErbMapClose
}

// UsageError reports dialect markup that cannot be rewritten into valid output
type UsageError struct {
	Message   string
	TagName   string
	Attribute string
	Position  Position
}

func (e *UsageError) Error() string {
	return fmt.Sprintf(ErrFmtWithTagAndPosition, e.Message, e.TagName, e.Position.String())
}

// Emitter error message constants
const (
	ErrMsgLiteralYields = "yields must be written as %yields=\"name\""
)
