package internal

import "go.uber.org/zap"

// ConditionalWrapper replaces tags carrying %if with conditional nodes
type ConditionalWrapper struct {
	logger *zap.Logger
}

// NewConditionalWrapper creates a new conditional wrapper
func NewConditionalWrapper(logger *zap.Logger) *ConditionalWrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConditionalWrapper{logger: logger}
}

// Wrap rewrites the tree in place
func (w *ConditionalWrapper) Wrap(root *RootNode) {
	root.Children = w.wrapNodes(root.Children)
}

func (w *ConditionalWrapper) wrapNodes(nodes []Node) []Node {
	for i, node := range nodes {
		tag, ok := node.(*TagNode)
		if !ok {
			continue
		}
		tag.Children = w.wrapNodes(tag.Children)

		cond, ok := tag.Attributes.Special(SpecialAttrIf)
		if !ok || !isComplete(tag) {
			continue
		}
		tag.Attributes = tag.Attributes.Without(func(attr *AttributeNode) bool {
			return attr.Kind == AttrSpecial && attr.Name == SpecialAttrIf
		})
		nodes[i] = NewConditionalNode(cond, tag, tag.Pos())

		w.logger.Debug(LogMsgConditionalWrapped,
			zap.String(LogFieldTag, tag.Name),
			zap.Int(LogFieldLine, tag.Pos().Line))
	}
	return nodes
}

// isComplete reports whether the whole element is known: self-closing,
// void, or matched with its closing tag
func isComplete(tag *TagNode) bool {
	return tag.SelfClose || tag.Block || IsVoidElement(tag.Name)
}
