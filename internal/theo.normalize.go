package internal

import (
	"fmt"

	"go.uber.org/zap"
)

// reservedWords are the host-language keywords that cannot be read as a
// bare local variable name
var reservedWords = map[string]struct{}{
	"__FILE__": {}, "__LINE__": {}, "__ENCODING__": {}, "BEGIN": {}, "END": {},
	"alias": {}, "and": {}, "begin": {}, "break": {}, "case": {}, "class": {},
	"def": {}, "do": {}, "else": {}, "elsif": {}, "end": {},
	"ensure": {}, "false": {}, "for": {}, "if": {}, "in": {}, "module": {},
	"next": {}, "nil": {}, "not": {}, "or": {}, "redo": {}, "rescue": {},
	"retry": {}, "return": {}, "self": {}, "super": {}, "then": {}, "true": {},
	"undef": {}, "unless": {}, "until": {}, "when": {}, "while": {}, "yield": {},
}

// IsReservedWord reports whether name is a host-language keyword
func IsReservedWord(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

// ShorthandExpression returns the expression a `name%` attribute stands for
func ShorthandExpression(name string) string {
	if IsReservedWord(name) {
		return fmt.Sprintf(ErbLocalVarGet, name)
	}
	return name
}

// Normalizer rewrites shorthand attributes into dynamic attributes
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize expands every `name%` attribute in the tree in place
func (n *Normalizer) Normalize(root *RootNode) {
	WalkTags(root.Children, func(tag *TagNode) {
		for _, attr := range tag.Attributes {
			if attr.Kind != AttrShorthand {
				continue
			}
			attr.Kind = AttrDynamic
			attr.Value = ShorthandExpression(attr.Name)
			n.logger.Debug(LogMsgShorthandExpanded,
				zap.String(LogFieldTag, tag.Name),
				zap.String(LogFieldAttribute, attr.Name))
		}
	})
}
