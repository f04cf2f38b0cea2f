package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Lexer tokenizes template source into a token stream.
//
// The lexer never fails: a '<' that does not start a well-formed tag
// (unbalanced quotes, a comparison inside a script, ...) is emitted as
// text and scanning resumes on the next byte.
type Lexer struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	tokens []Token
	logger *zap.Logger
}

// lexState is a saved lexer position used to back out of a failed tag scan
type lexState struct {
	pos    int
	line   int
	column int
}

// NewLexer creates a new lexer for source
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize processes the source and returns a token stream ending in EOF
func (l *Lexer) Tokenize() []Token {
	l.logger.Debug(LogMsgTokenizerStart)
	l.tokens = nil

	for !l.isAtEnd() {
		switch {
		case l.matchStr(StrDirectiveOpen):
			l.scanOpaque(TokenTypeDirective, StrDirectiveOpen, StrDirectiveClose)
		case l.matchStr(StrCommentOpen):
			l.scanOpaque(TokenTypeComment, StrCommentOpen, StrCommentClose)
		case l.peek() == CharLess:
			if !l.tryTag() {
				pos := l.currentPosition()
				l.emitText(string(l.advance()), pos)
			}
		default:
			l.scanText()
		}
	}

	l.tokens = append(l.tokens, NewEOFToken(l.currentPosition()))
	l.logger.Debug(LogMsgTokenizerEnd, zap.Int(LogFieldTokens, len(l.tokens)))
	return l.tokens
}

// scanText scans text content up to the next '<'
func (l *Lexer) scanText() {
	pos := l.currentPosition()
	start := l.pos
	for !l.isAtEnd() && l.peek() != CharLess {
		l.advance()
	}
	l.emitText(l.source[start:l.pos], pos)
}

// scanOpaque scans a delimited region (ERB directive, HTML comment) as a single token.
// An unterminated region swallows the rest of the source as text.
func (l *Lexer) scanOpaque(tokenType TokenType, open, close string) {
	pos := l.currentPosition()
	start := l.pos
	idx := strings.Index(l.source[start+len(open):], close)
	if idx < 0 {
		l.advanceN(len(l.source) - start)
		l.emitText(l.source[start:], pos)
		return
	}
	l.advanceN(len(open) + idx + len(close))
	l.tokens = append(l.tokens, NewToken(tokenType, l.source[start:l.pos], pos))
}

// emitText appends text, merging with a directly preceding text token
func (l *Lexer) emitText(content string, pos Position) {
	if content == "" {
		return
	}
	if n := len(l.tokens); n > 0 {
		last := &l.tokens[n-1]
		if last.Type == TokenTypeText && last.End() == pos.Offset {
			last.Value += content
			last.Raw += content
			return
		}
	}
	l.tokens = append(l.tokens, NewTextToken(content, pos))
}

// tryTag attempts to scan a start or end tag at the current '<'.
// On failure the lexer is rewound and false is returned.
func (l *Lexer) tryTag() bool {
	saved := l.snapshot()

	var tagTokens []Token
	var ok bool
	if l.matchStr(StrEndTagOpen) {
		tagTokens, ok = l.scanEndTag()
	} else {
		tagTokens, ok = l.scanStartTag()
	}

	if !ok {
		l.restore(saved)
		l.logger.Debug(LogMsgTagFallback,
			zap.Int(LogFieldLine, saved.line),
			zap.Int(LogFieldColumn, saved.column))
		return false
	}
	l.tokens = append(l.tokens, tagTokens...)
	return true
}

// scanStartTag scans `<name attrs... >` or `<name attrs... />`
func (l *Lexer) scanStartTag() ([]Token, bool) {
	tokens := []Token{NewToken(TokenTypeOpenTag, StrTagOpen, l.currentPosition())}
	l.advance()

	nameTok, ok := l.scanTagName()
	if !ok {
		return nil, false
	}
	tokens = append(tokens, nameTok)

	for {
		wsTok, hasWS := l.scanWhitespace()
		if hasWS {
			tokens = append(tokens, wsTok)
		}
		if l.isAtEnd() {
			return nil, false
		}

		if l.matchStr(StrSelfClose) {
			tokens = append(tokens, NewToken(TokenTypeSelfClose, StrSelfClose, l.currentPosition()))
			l.advanceN(len(StrSelfClose))
			return tokens, true
		}
		if l.peek() == CharGreater {
			tokens = append(tokens, NewToken(TokenTypeCloseTag, StrTagClose, l.currentPosition()))
			l.advance()
			return tokens, true
		}

		// Attributes must be separated from the name and from each other
		if !hasWS {
			return nil, false
		}

		if l.matchStr(StrDirectiveOpen) {
			dirTok, ok := l.scanDirectiveInTag()
			if !ok {
				return nil, false
			}
			tokens = append(tokens, dirTok)
			continue
		}

		attrTokens, ok := l.scanAttribute()
		if !ok {
			return nil, false
		}
		tokens = append(tokens, attrTokens...)
	}
}

// scanEndTag scans `</name>`
func (l *Lexer) scanEndTag() ([]Token, bool) {
	tokens := []Token{NewToken(TokenTypeEndTagOpen, StrEndTagOpen, l.currentPosition())}
	l.advanceN(len(StrEndTagOpen))

	nameTok, ok := l.scanTagName()
	if !ok {
		return nil, false
	}
	tokens = append(tokens, nameTok)

	if wsTok, hasWS := l.scanWhitespace(); hasWS {
		tokens = append(tokens, wsTok)
	}
	if l.isAtEnd() || l.peek() != CharGreater {
		return nil, false
	}
	tokens = append(tokens, NewToken(TokenTypeCloseTag, StrTagClose, l.currentPosition()))
	l.advance()
	return tokens, true
}

// scanTagName scans a tag name: a letter or underscore followed by
// letters, digits, '_', '-', ':' or '.'
func (l *Lexer) scanTagName() (Token, bool) {
	pos := l.currentPosition()
	start := l.pos

	if l.isAtEnd() || !isTagNameStart(l.peek()) {
		return Token{}, false
	}
	l.advance()
	for !l.isAtEnd() && isTagNameChar(l.peek()) {
		l.advance()
	}
	return NewToken(TokenTypeTagName, l.source[start:l.pos], pos), true
}

// scanAttribute scans one attribute in any of its dialect forms:
//
//	name  name="v"  name%="expr"  name%  %name="v"
//
// A special attribute (%name) without a non-blank value does not lex.
func (l *Lexer) scanAttribute() ([]Token, bool) {
	var tokens []Token

	prefixed := false
	if l.peek() == CharPercent {
		tokens = append(tokens, NewToken(TokenTypeSigil, StrSigil, l.currentPosition()))
		l.advance()
		prefixed = true
	}

	nameTok, ok := l.scanAttrName()
	if !ok {
		return nil, false
	}
	tokens = append(tokens, nameTok)

	if !prefixed && !l.isAtEnd() && l.peek() == CharPercent {
		tokens = append(tokens, NewToken(TokenTypeSigil, StrSigil, l.currentPosition()))
		l.advance()
	}

	saved := l.snapshot()
	wsTok, hasWS := l.scanWhitespace()
	if l.isAtEnd() || l.peek() != CharEquals {
		// Special attributes always carry a value
		if prefixed {
			return nil, false
		}
		// Boolean or shorthand attribute: leave the whitespace for the tag loop
		l.restore(saved)
		return tokens, true
	}
	if hasWS {
		tokens = append(tokens, wsTok)
	}
	tokens = append(tokens, NewToken(TokenTypeEquals, string(CharEquals), l.currentPosition()))
	l.advance()

	if wsTok, hasWS := l.scanWhitespace(); hasWS {
		tokens = append(tokens, wsTok)
	}

	valueTok, ok := l.scanAttrValue()
	if !ok {
		return nil, false
	}
	if prefixed && strings.TrimSpace(valueTok.Value) == StringValueEmpty {
		return nil, false
	}
	return append(tokens, valueTok), true
}

// scanAttrName scans an attribute name
func (l *Lexer) scanAttrName() (Token, bool) {
	pos := l.currentPosition()
	start := l.pos

	if l.isAtEnd() || !isAttrNameStart(l.peek()) {
		return Token{}, false
	}
	l.advance()
	for !l.isAtEnd() && isAttrNameChar(l.peek()) {
		l.advance()
	}
	return NewToken(TokenTypeAttrName, l.source[start:l.pos], pos), true
}

// scanAttrValue scans a quoted or unquoted attribute value.
// ERB directives inside a quoted value are skipped whole, so quotes used
// by the embedded expression do not terminate the value.
func (l *Lexer) scanAttrValue() (Token, bool) {
	pos := l.currentPosition()
	start := l.pos

	if l.isAtEnd() {
		return Token{}, false
	}

	quote := l.peek()
	if quote != CharDoubleQuote && quote != CharSingleQuote {
		return l.scanUnquotedValue()
	}
	l.advance()

	for !l.isAtEnd() {
		if l.matchStr(StrDirectiveOpen) {
			idx := strings.Index(l.source[l.pos+len(StrDirectiveOpen):], StrDirectiveClose)
			if idx < 0 {
				return Token{}, false
			}
			l.advanceN(len(StrDirectiveOpen) + idx + len(StrDirectiveClose))
			continue
		}
		if l.peek() == quote {
			l.advance()
			raw := l.source[start:l.pos]
			return NewAttrValueToken(raw[1:len(raw)-1], raw, pos), true
		}
		l.advance()
	}

	return Token{}, false
}

// scanUnquotedValue scans an HTML unquoted attribute value
func (l *Lexer) scanUnquotedValue() (Token, bool) {
	pos := l.currentPosition()
	start := l.pos
	for !l.isAtEnd() && !l.matchStr(StrSelfClose) && isUnquotedValueChar(l.peek()) {
		l.advance()
	}
	if l.pos == start {
		return Token{}, false
	}
	raw := l.source[start:l.pos]
	return NewAttrValueToken(raw, raw, pos), true
}

// scanDirectiveInTag scans an ERB directive sitting in a tag's attribute list
func (l *Lexer) scanDirectiveInTag() (Token, bool) {
	pos := l.currentPosition()
	start := l.pos
	idx := strings.Index(l.source[start+len(StrDirectiveOpen):], StrDirectiveClose)
	if idx < 0 {
		return Token{}, false
	}
	l.advanceN(len(StrDirectiveOpen) + idx + len(StrDirectiveClose))
	return NewToken(TokenTypeDirective, l.source[start:l.pos], pos), true
}

// scanWhitespace consumes a run of whitespace, reporting whether any was found
func (l *Lexer) scanWhitespace() (Token, bool) {
	pos := l.currentPosition()
	start := l.pos
	for !l.isAtEnd() && isWhitespace(l.peek()) {
		l.advance()
	}
	if l.pos == start {
		return Token{}, false
	}
	return NewToken(TokenTypeWhitespace, l.source[start:l.pos], pos), true
}

// Helper methods

// currentPosition returns the current position
func (l *Lexer) currentPosition() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) snapshot() lexState {
	return lexState{pos: l.pos, line: l.line, column: l.column}
}

func (l *Lexer) restore(s lexState) {
	l.pos = s.pos
	l.line = s.line
	l.column = s.column
}

// isAtEnd returns true if we've reached the end of source
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current character without advancing
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == CharNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// advanceN advances by n characters
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}

// matchStr returns true if the remaining source starts with s
func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}

func isWhitespace(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharNewline || ch == CharCarriageRet || ch == CharFormFeed
}

func isTagNameStart(ch byte) bool {
	return isLetter(ch) || ch == CharUnderscore
}

func isTagNameChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == CharUnderscore || ch == CharHyphen || ch == CharColon || ch == CharDot
}

func isAttrNameStart(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == CharUnderscore || ch == CharColon || ch == CharAt
}

func isAttrNameChar(ch byte) bool {
	return isAttrNameStart(ch) || ch == CharHyphen || ch == CharDot
}

func isUnquotedValueChar(ch byte) bool {
	switch ch {
	case CharDoubleQuote, CharSingleQuote, CharEquals, CharLess, CharGreater, CharBacktick:
		return false
	}
	return !isWhitespace(ch)
}
