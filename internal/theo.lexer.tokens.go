package internal

import "fmt"

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token represents a lexical token produced by the lexer
type Token struct {
	Type     TokenType // The type of token
	Value    string    // The token's value/content
	Raw      string    // Source text covered by the token (quotes included for values)
	Position Position  // Source position
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("Token{%s @ %s}", t.Type, t.Position)
	}
	return fmt.Sprintf("Token{%s: %q @ %s}", t.Type, t.Value, t.Position)
}

// End returns the byte offset just past the token
func (t Token) End() int {
	return t.Position.Offset + len(t.Raw)
}

// IsEOF returns true if this is an end-of-file token
func (t Token) IsEOF() bool {
	return t.Type == TokenTypeEOF
}

// IsText returns true if this token is copied through verbatim (text, directive or comment)
func (t Token) IsText() bool {
	return t.Type == TokenTypeText || t.Type == TokenTypeDirective || t.Type == TokenTypeComment
}

// IsTagEnd returns true if this token terminates a start or end tag
func (t Token) IsTagEnd() bool {
	return t.Type == TokenTypeCloseTag || t.Type == TokenTypeSelfClose
}

// NewToken creates a new token whose raw text equals its value
func NewToken(tokenType TokenType, value string, pos Position) Token {
	return Token{
		Type:     tokenType,
		Value:    value,
		Raw:      value,
		Position: pos,
	}
}

// NewEOFToken creates an EOF token at the given position
func NewEOFToken(pos Position) Token {
	return Token{
		Type:     TokenTypeEOF,
		Position: pos,
	}
}

// NewTextToken creates a text token with the given content
func NewTextToken(content string, pos Position) Token {
	return NewToken(TokenTypeText, content, pos)
}

// NewAttrValueToken creates an attribute value token; raw keeps the quotes
func NewAttrValueToken(value, raw string, pos Position) Token {
	return Token{
		Type:     TokenTypeAttrValue,
		Value:    value,
		Raw:      raw,
		Position: pos,
	}
}
