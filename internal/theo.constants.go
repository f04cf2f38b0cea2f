package internal

// TokenType represents the type of a lexical token
type TokenType string

// Token type constants
const (
	TokenTypeText       TokenType = "TEXT"
	TokenTypeDirective  TokenType = "DIRECTIVE"
	TokenTypeComment    TokenType = "COMMENT"
	TokenTypeOpenTag    TokenType = "OPEN_TAG"
	TokenTypeEndTagOpen TokenType = "END_TAG_OPEN"
	TokenTypeTagName    TokenType = "TAG_NAME"
	TokenTypeSigil      TokenType = "SIGIL"
	TokenTypeAttrName   TokenType = "ATTR_NAME"
	TokenTypeEquals     TokenType = "EQUALS"
	TokenTypeAttrValue  TokenType = "ATTR_VALUE"
	TokenTypeCloseTag   TokenType = "CLOSE_TAG"
	TokenTypeSelfClose  TokenType = "SELF_CLOSE"
	TokenTypeWhitespace TokenType = "WHITESPACE"
	TokenTypeEOF        TokenType = "EOF"
)

// NodeType identifies AST node types
type NodeType int

// Node type constants
const (
	NodeTypeRoot NodeType = iota
	NodeTypeText
	NodeTypeElement
	NodeTypeConditional
)

// Node type string names for debugging
const (
	NodeTypeNameRoot        = "ROOT"
	NodeTypeNameText        = "TEXT"
	NodeTypeNameElement     = "ELEMENT"
	NodeTypeNameConditional = "CONDITIONAL"
)

// String returns the string representation of the node type
func (n NodeType) String() string {
	switch n {
	case NodeTypeRoot:
		return NodeTypeNameRoot
	case NodeTypeText:
		return NodeTypeNameText
	case NodeTypeElement:
		return NodeTypeNameElement
	case NodeTypeConditional:
		return NodeTypeNameConditional
	default:
		return NodeTypeNameRoot
	}
}

// Character constants
const (
	CharLess        = '<'
	CharGreater     = '>'
	CharEquals      = '='
	CharPercent     = '%'
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharBacktick    = '`'
	CharSlash       = '/'
	CharBackslash   = '\\'
	CharUnderscore  = '_'
	CharHyphen      = '-'
	CharColon       = ':'
	CharAt          = '@'
	CharDot         = '.'
	CharNewline     = '\n'
	CharSpace       = ' '
	CharTab         = '\t'
	CharCarriageRet = '\r'
	CharFormFeed    = '\f'
)

// Markup delimiters recognised by the lexer
const (
	StrDirectiveOpen  = "<%"
	StrOutputOpen     = "<%="
	StrDirectiveClose = "%>"
	StrCommentOpen    = "<!--"
	StrCommentClose   = "-->"
	StrEndTagOpen     = "</"
	StrSelfClose      = "/>"
	StrTagOpen        = "<"
	StrTagClose       = ">"
	StrSigil          = "%"
)

// ERB output fragments produced by the emitter
const (
	ErbOutputOpen   = "<%= "
	ErbStmtOpen     = "<% "
	ErbClose        = " %>"
	ErbEnd          = "<% end %>"
	ErbIf           = "if "
	ErbRender       = "render"
	ErbDo           = " do"
	ErbBlockArgFmt  = " |%s|"
	ErbPartialKey   = "partial: "
	ErbLocalsKey    = "locals: "
	ErbCollection   = "collection: "
	ErbAsKey        = "as: "
	ErbNewCall      = ".new("
	ErbWithColl     = ".with_collection("
	ErbCallClose    = ")"
	ErbArgSep       = ", "
	ErbMapOpen      = "{"
	ErbMapClose     = "}"
	ErbEmptyMap     = "{}"
	ErbLocalKeyFmt  = "'%s': %s"
	ErbToString     = ".to_s"
	ErbConcat       = " + "
	ErbLocalVarGet  = "binding.local_variable_get('%s')"
	ErbEmptyString  = "''"
	ErbPathSep      = "/"
	ErbNamespaceSep = "::"
)

// Special (control) attribute names, written with a leading sigil: %if="..."
const (
	SpecialAttrIf         = "if"
	SpecialAttrPath       = "path"
	SpecialAttrYields     = "yields"
	SpecialAttrCollection = "collection"
	SpecialAttrAs         = "as"
)

// Attribute names with merge semantics
const (
	AttrNameClass = "class"
	AttrNameStyle = "style"
)

// Merge separators for duplicated class/style attributes
const (
	MergeSepClass = " "
	MergeSepStyle = "; "
)

// Default dialect markers
const (
	DefaultPartialPrefix   = "_"
	DefaultPartialSuffix   = ""
	DefaultComponentSuffix = "Component"
)

// Log message constants
const (
	LogMsgLexerCreated          = "lexer created"
	LogMsgTokenizerStart        = "starting tokenization"
	LogMsgTokenizerEnd          = "tokenization complete"
	LogMsgTagFallback           = "tag did not lex, kept as text"
	LogMsgParserCreated         = "parser created"
	LogMsgParserStart           = "starting parse"
	LogMsgParserEnd             = "parse complete"
	LogMsgUnclosedTag           = "no matching closing tag, kept as plain markup"
	LogMsgShorthandExpanded     = "shorthand attribute expanded"
	LogMsgAttributesMerged      = "attributes merged"
	LogMsgAttributeCollision    = "duplicate attribute, last value wins"
	LogMsgConditionalWrapped    = "element wrapped in conditional"
	LogMsgEmitterStart          = "starting emission"
	LogMsgEmitterEnd            = "emission complete"
	LogMsgTargetResolved        = "render target resolved"
	LogMsgComponentFallback     = "component not found in registry, using suffix fallback"
	LogMsgAttributeIgnored      = "attribute ignored for this tag"
	LogMsgMixedValue            = "attribute value mixes text and directives, passed as a plain string"
	LogMsgDirectiveInDialectTag = "directive in dialect tag attribute list, kept as plain markup"
)

// Log field names
const (
	LogFieldSource    = "source_length"
	LogFieldTokens    = "token_count"
	LogFieldNodes     = "node_count"
	LogFieldTag       = "tag"
	LogFieldAttribute = "attribute"
	LogFieldTarget    = "target"
	LogFieldKind      = "kind"
	LogFieldLine      = "line"
	LogFieldColumn    = "column"
	LogFieldDepth     = "depth"
	LogFieldOutput    = "output_length"
)

// Error format string constants (for Error() methods)
const (
	ErrFmtWithPosition       = "%s at %s"
	ErrFmtWithTagAndPosition = "%s [%s] at %s"
)

// String format constants for AST String() methods
const (
	FmtOpenBrace   = "{"
	FmtCloseBrace  = "}"
	FmtCommaSep    = ", "
	FmtKeyValueSep = "="
	FmtEmptyBraces = "{}"
)

// Display limits for AST String() methods
const (
	MaxStringDisplayLength = 40
	TruncatedStringLength  = 37
	TruncationSuffix       = "..."
)

// StringValueEmpty is the empty string sentinel
const StringValueEmpty = ""
