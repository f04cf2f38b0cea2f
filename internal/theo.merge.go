package internal

import (
	"strings"

	"go.uber.org/zap"
)

// mergeSeparators maps each mergeable attribute to the separator placed
// between merged values
var mergeSeparators = []struct {
	name string
	sep  string
}{
	{name: AttrNameClass, sep: MergeSepClass},
	{name: AttrNameStyle, sep: MergeSepStyle},
}

// Merger folds literal class and style values into a dynamic attribute of
// the same name, so a tag never carries both forms.
type Merger struct {
	logger *zap.Logger
}

// NewMerger creates a new attribute merger
func NewMerger(logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{logger: logger}
}

// Merge rewrites every tag in the tree in place
func (m *Merger) Merge(root *RootNode) {
	WalkTags(root.Children, m.mergeTag)
}

func (m *Merger) mergeTag(tag *TagNode) {
	for _, ms := range mergeSeparators {
		var dynamic, literal []*AttributeNode
		for _, attr := range tag.Attributes {
			if attr.Name != ms.name {
				continue
			}
			switch attr.Kind {
			case AttrDynamic:
				dynamic = append(dynamic, attr)
			case AttrLiteral:
				literal = append(literal, attr)
			}
		}
		if len(dynamic) == 0 || len(literal) == 0 {
			continue
		}

		target := dynamic[len(dynamic)-1]
		if len(dynamic) > 1 {
			m.logger.Warn(LogMsgAttributeCollision,
				zap.String(LogFieldTag, tag.Name),
				zap.String(LogFieldAttribute, ms.name),
				zap.Int(LogFieldLine, target.Pos.Line))
		}
		target.Value = MergedExpression(target.Value, literal, ms.sep)

		drop := make(map[*AttributeNode]struct{}, len(literal)+len(dynamic)-1)
		for _, attr := range literal {
			drop[attr] = struct{}{}
		}
		for _, attr := range dynamic[:len(dynamic)-1] {
			drop[attr] = struct{}{}
		}
		tag.Attributes = tag.Attributes.Without(func(attr *AttributeNode) bool {
			_, ok := drop[attr]
			return ok
		})

		m.logger.Debug(LogMsgAttributesMerged,
			zap.String(LogFieldTag, tag.Name),
			zap.String(LogFieldAttribute, ms.name))
	}
}

// MergedExpression appends literal values to a dynamic expression:
//
//	(expr).to_s + ' red'
//
// A literal that is itself a bare interpolation is appended as an expression.
func MergedExpression(expr string, literals []*AttributeNode, sep string) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(expr)
	sb.WriteString(")")
	sb.WriteString(ErbToString)
	for _, attr := range literals {
		sb.WriteString(ErbConcat)
		if inner, ok := BareInterpolation(attr.Value); ok {
			sb.WriteString(RubyString(sep))
			sb.WriteString(ErbConcat)
			sb.WriteString("(")
			sb.WriteString(inner)
			sb.WriteString(")")
			sb.WriteString(ErbToString)
			continue
		}
		sb.WriteString(RubyString(sep + attr.Value))
	}
	return sb.String()
}
