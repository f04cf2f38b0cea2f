package internal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Parser produces an AST from a token stream.
//
// Parsing runs in two steps: the token stream is grouped into flat items
// (text, start tag, end tag), then blocks are formed by matching each
// block-form dialect tag, and each plain tag carrying %if, with its closing
// tag. Matching counts nested open tags of the same name, so a tag may
// contain a same-named tag.
type Parser struct {
	tokens  []Token
	source  string
	pos     int
	dialect DialectConfig
	logger  *zap.Logger
}

type itemKind int

const (
	itemText itemKind = iota
	itemStart
	itemEnd
)

// item is a flat piece of the template: text, a start tag or an end tag
type item struct {
	kind      itemKind
	pos       Position
	text      string // Source of the whole item
	name      string
	attrs     Attributes
	selfClose bool
	tail      string
}

// NewParser creates a new parser for the given token stream.
// source must be the text the tokens were produced from.
func NewParser(tokens []Token, source string, dialect DialectConfig, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldTokens, len(tokens)))
	return &Parser{
		tokens:  tokens,
		source:  source,
		pos:     0,
		dialect: dialect,
		logger:  logger,
	}
}

// Parse produces the AST root node from the token stream
func (p *Parser) Parse() (*RootNode, error) {
	p.logger.Debug(LogMsgParserStart)

	items, err := p.parseItems()
	if err != nil {
		return nil, err
	}

	nodes, err := p.build(items, 0)
	if err != nil {
		return nil, err
	}

	p.logger.Debug(LogMsgParserEnd, zap.Int(LogFieldNodes, len(nodes)))
	return &RootNode{Children: nodes}, nil
}

// parseItems groups tokens into text, start tag and end tag items
func (p *Parser) parseItems() ([]item, error) {
	var items []item

	for !p.isAtEnd() {
		tok := p.current()
		switch {
		case tok.IsText():
			p.advance()
			items = append(items, item{kind: itemText, pos: tok.Position, text: tok.Raw})
		case tok.Type == TokenTypeOpenTag:
			it, err := p.parseStartTag()
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		case tok.Type == TokenTypeEndTagOpen:
			it, err := p.parseEndTag()
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		default:
			return nil, p.newUnexpectedTokenError(tok)
		}
	}

	return items, nil
}

// parseStartTag parses OPEN_TAG TAG_NAME attributes (CLOSE_TAG | SELF_CLOSE)
func (p *Parser) parseStartTag() (item, error) {
	openTok := p.advance()

	nameTok := p.current()
	if nameTok.Type != TokenTypeTagName {
		return item{}, p.newUnexpectedTokenError(nameTok)
	}
	p.advance()

	var attrs Attributes
	lead := StringValueEmpty
	for tok := p.current(); !tok.IsTagEnd(); tok = p.current() {
		switch tok.Type {
		case TokenTypeWhitespace:
			lead = tok.Raw
			p.advance()
		case TokenTypeDirective:
			attrs = append(attrs, &AttributeNode{
				Value: tok.Raw,
				Kind:  AttrDirective,
				Lead:  lead,
				Raw:   tok.Raw,
				Pos:   tok.Position,
			})
			lead = StringValueEmpty
			p.advance()
		case TokenTypeSigil, TokenTypeAttrName:
			attr, err := p.parseAttribute(lead)
			if err != nil {
				return item{}, err
			}
			attrs = append(attrs, attr)
			lead = StringValueEmpty
		default:
			return item{}, p.newUnexpectedTokenError(tok)
		}
	}

	endTok := p.advance()
	return item{
		kind:      itemStart,
		pos:       openTok.Position,
		text:      p.source[openTok.Position.Offset:endTok.End()],
		name:      nameTok.Value,
		attrs:     attrs,
		selfClose: endTok.Type == TokenTypeSelfClose,
		tail:      lead + endTok.Raw,
	}, nil
}

// parseAttribute parses one attribute starting at a SIGIL or ATTR_NAME token
func (p *Parser) parseAttribute(lead string) (*AttributeNode, error) {
	start := p.current().Position

	prefixed := false
	if p.current().Type == TokenTypeSigil {
		prefixed = true
		p.advance()
	}

	nameTok := p.current()
	if nameTok.Type != TokenTypeAttrName {
		return nil, p.newUnexpectedTokenError(nameTok)
	}
	p.advance()

	suffixed := false
	if !prefixed && p.current().Type == TokenTypeSigil {
		suffixed = true
		p.advance()
	}

	if p.current().Type == TokenTypeWhitespace && p.peekType(1) == TokenTypeEquals {
		p.advance()
	}

	hasValue := false
	value := StringValueEmpty
	if p.current().Type == TokenTypeEquals {
		p.advance()
		if p.current().Type == TokenTypeWhitespace {
			p.advance()
		}
		valueTok := p.current()
		if valueTok.Type != TokenTypeAttrValue {
			return nil, p.newUnexpectedTokenError(valueTok)
		}
		p.advance()
		hasValue = true
		value = valueTok.Value
	}

	end := p.tokens[p.pos-1].End()
	return &AttributeNode{
		Name:  nameTok.Value,
		Value: value,
		Kind:  attrKind(prefixed, suffixed, hasValue),
		Lead:  lead,
		Raw:   p.source[start.Offset:end],
		Pos:   start,
	}, nil
}

func attrKind(prefixed, suffixed, hasValue bool) AttrKind {
	switch {
	case prefixed:
		return AttrSpecial
	case suffixed && hasValue:
		return AttrDynamic
	case suffixed:
		return AttrShorthand
	case hasValue:
		return AttrLiteral
	default:
		return AttrBoolean
	}
}

// parseEndTag parses END_TAG_OPEN TAG_NAME [WHITESPACE] CLOSE_TAG
func (p *Parser) parseEndTag() (item, error) {
	openTok := p.advance()

	nameTok := p.current()
	if nameTok.Type != TokenTypeTagName {
		return item{}, p.newUnexpectedTokenError(nameTok)
	}
	p.advance()

	if p.current().Type == TokenTypeWhitespace {
		p.advance()
	}
	closeTok := p.current()
	if closeTok.Type != TokenTypeCloseTag {
		return item{}, p.newUnexpectedTokenError(closeTok)
	}
	p.advance()

	return item{
		kind: itemEnd,
		pos:  openTok.Position,
		text: p.source[openTok.Position.Offset:closeTok.End()],
		name: nameTok.Value,
	}, nil
}

// build turns flat items into nodes, recursing into matched blocks.
// depth is the number of enclosing dialect blocks.
func (p *Parser) build(items []item, depth int) ([]Node, error) {
	var nodes []Node

	for i := 0; i < len(items); i++ {
		it := items[i]
		if it.kind != itemStart {
			nodes = appendText(nodes, it.text, it.pos)
			continue
		}

		tag := NewTagNode(it.name, p.dialect.Family(it.name), it.attrs, it.pos)
		tag.SelfClose = it.selfClose
		tag.Tail = it.tail

		if tag.IsDialect() && tag.Attributes.HasKind(AttrDirective) {
			p.logger.Debug(LogMsgDirectiveInDialectTag,
				zap.String(LogFieldTag, tag.Name),
				zap.Int(LogFieldLine, tag.pos.Line),
				zap.Int(LogFieldColumn, tag.pos.Column))
			tag.Family = FamilyPlain
		}

		closeIdx := -1
		if p.needsBody(tag) {
			closeIdx = findClose(items, i, tag)
			if closeIdx < 0 {
				p.logger.Debug(LogMsgUnclosedTag,
					zap.String(LogFieldTag, tag.Name),
					zap.Int(LogFieldLine, tag.pos.Line),
					zap.Int(LogFieldColumn, tag.pos.Column))
				tag.Family = FamilyPlain
			}
		}

		childDepth := depth
		if tag.IsDialect() {
			childDepth++
			if p.dialect.MaxDepth > 0 && childDepth > p.dialect.MaxDepth {
				return nil, &DepthError{
					TagName:  tag.Name,
					Depth:    childDepth,
					MaxDepth: p.dialect.MaxDepth,
					Position: tag.pos,
				}
			}
		}

		if closeIdx >= 0 {
			children, err := p.build(items[i+1:closeIdx], childDepth)
			if err != nil {
				return nil, err
			}
			tag.Children = children
			tag.Block = true
			tag.CloseRaw = items[closeIdx].text
			i = closeIdx
		}
		nodes = append(nodes, tag)
	}

	return nodes, nil
}

// needsBody reports whether a tag must be matched with its closing tag
func (p *Parser) needsBody(tag *TagNode) bool {
	if tag.SelfClose {
		return false
	}
	if tag.IsDialect() {
		return true
	}
	return tag.Attributes.HasSpecial(SpecialAttrIf) && !IsVoidElement(tag.Name)
}

// findClose returns the index of the end tag matching the start tag at
// items[open], or -1. Nested start tags of the same name push the depth.
func findClose(items []item, open int, tag *TagNode) int {
	depth := 0
	for k := open + 1; k < len(items); k++ {
		it := items[k]
		if it.kind == itemText || !sameTagName(tag, it.name) {
			continue
		}
		if it.kind == itemStart {
			if !it.selfClose && (tag.IsDialect() || !IsVoidElement(it.name)) {
				depth++
			}
			continue
		}
		if depth == 0 {
			return k
		}
		depth--
	}
	return -1
}

// sameTagName compares exactly for dialect tags and case-insensitively for HTML
func sameTagName(tag *TagNode, name string) bool {
	if tag.IsDialect() {
		return tag.Name == name
	}
	return strings.EqualFold(tag.Name, name)
}

// appendText appends text, merging with a preceding text node
func appendText(nodes []Node, content string, pos Position) []Node {
	if n := len(nodes); n > 0 {
		if last, ok := nodes[n-1].(*TextNode); ok {
			last.Content += content
			return nodes
		}
	}
	return append(nodes, NewTextNode(content, pos))
}

// Helper methods

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenTypeEOF}
	}
	return p.tokens[p.pos]
}

// peekType returns the type of the token n positions ahead
func (p *Parser) peekType(n int) TokenType {
	if p.pos+n >= len(p.tokens) {
		return TokenTypeEOF
	}
	return p.tokens[p.pos+n].Type
}

// advance consumes and returns the current token
func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// isAtEnd returns true if we've reached EOF
func (p *Parser) isAtEnd() bool {
	return p.current().Type == TokenTypeEOF
}

// Error helpers

func (p *Parser) newUnexpectedTokenError(tok Token) error {
	return &ParserError{
		Message:  ErrMsgUnexpectedToken,
		Position: tok.Position,
		Token:    tok,
	}
}

// ParserError represents a parser error with context
type ParserError struct {
	Message  string
	Position Position
	Token    Token
}

func (e *ParserError) Error() string {
	return fmt.Sprintf(ErrFmtWithPosition, e.Message, e.Position.String())
}

// DepthError reports dialect nesting deeper than the configured maximum
type DepthError struct {
	TagName  string
	Depth    int
	MaxDepth int
	Position Position
}

func (e *DepthError) Error() string {
	return fmt.Sprintf(ErrFmtWithTagAndPosition, ErrMsgDepthExceeded, e.TagName, e.Position.String())
}

// Parser error message constants
const (
	ErrMsgUnexpectedToken = "unexpected token"
	ErrMsgDepthExceeded   = "maximum dialect nesting depth exceeded"
)
