package internal

import "strings"

// rubyStringEscaper escapes the two characters significant inside a
// single-quoted host-language string
var rubyStringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// RubyString returns s as a single-quoted string literal
func RubyString(s string) string {
	return string(CharSingleQuote) + rubyStringEscaper.Replace(s) + string(CharSingleQuote)
}

// BareInterpolation reports whether v is exactly one `<%= expr %>` output
// directive and returns the trimmed expression.
func BareInterpolation(v string) (string, bool) {
	if !strings.HasPrefix(v, StrOutputOpen) || !strings.HasSuffix(v, StrDirectiveClose) {
		return StringValueEmpty, false
	}
	if len(v) < len(StrOutputOpen)+len(StrDirectiveClose) {
		return StringValueEmpty, false
	}
	inner := v[len(StrOutputOpen) : len(v)-len(StrDirectiveClose)]
	if strings.Contains(inner, StrDirectiveOpen) || strings.Contains(inner, StrDirectiveClose) {
		return StringValueEmpty, false
	}
	// <%== is raw output, not a plain interpolation
	if strings.HasPrefix(inner, string(CharEquals)) {
		return StringValueEmpty, false
	}
	expr := strings.TrimSpace(inner)
	if expr == StringValueEmpty {
		return StringValueEmpty, false
	}
	return expr, true
}

// MixesDirectives reports whether v holds a directive alongside other text.
// Such a value is quoted as a plain string, and the directive's closing
// delimiter inside it ends the surrounding render directive early.
func MixesDirectives(v string) bool {
	if !strings.Contains(v, StrDirectiveOpen) {
		return false
	}
	_, bare := BareInterpolation(v)
	return !bare
}

// ValueExpression returns the host-language expression for an attribute
// passed as a local or constructor argument. Literal values mixing text and
// directives are not supported; see MixesDirectives.
func ValueExpression(attr *AttributeNode) string {
	switch attr.Kind {
	case AttrDynamic:
		return attr.Value
	case AttrBoolean:
		return ErbEmptyString
	case AttrShorthand:
		return ShorthandExpression(attr.Name)
	default:
		if expr, ok := BareInterpolation(attr.Value); ok {
			return expr
		}
		return RubyString(attr.Value)
	}
}
