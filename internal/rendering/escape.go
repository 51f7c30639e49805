// Package rendering produces the learning map workbook and the design brief document from run artifacts.
package rendering

import "strings"

// EscapeMarkdown escapes characters that would change Markdown structure in text
// Special characters: \ ` * _ { } [ ] < > | #
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2) // Pre-allocate space for potential escaping

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\\`)
		case '`':
			result.WriteString("\\`")
		case '*':
			result.WriteString(`\*`)
		case '_':
			result.WriteString(`\_`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '[':
			result.WriteString(`\[`)
		case ']':
			result.WriteString(`\]`)
		case '<':
			result.WriteString(`&lt;`)
		case '>':
			result.WriteString(`&gt;`)
		case '|':
			result.WriteString(`\|`)
		case '#':
			result.WriteString(`\#`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
