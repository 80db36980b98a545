// Package rendering turns résumé records into self-contained HTML documents.
package rendering

import (
	"fmt"
	"strings"
)

// EscapeHTML escapes & < > " for safe embedding as an HTML text node.
// It is the only sanitization boundary: every text value placed in element
// content passes through it exactly once. URLs used as attribute values do not.
func EscapeHTML(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/4)

	// byte-wise so invalid UTF-8 passes through untouched
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		case '"':
			result.WriteString("&quot;")
		default:
			result.WriteByte(c)
		}
	}

	return result.String()
}

// EscapeHTMLValue coerces v to its text form before escaping it.
func EscapeHTMLValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return EscapeHTML(s)
	}
	return EscapeHTML(fmt.Sprint(v))
}
