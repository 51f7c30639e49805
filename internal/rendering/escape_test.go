// Package rendering produces the learning map workbook and the design brief document from run artifacts.
package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown_EmptyString(t *testing.T) {
	result := EscapeMarkdown("")
	assert.Equal(t, "", result)
}

func TestEscapeMarkdown_NoSpecialCharacters(t *testing.T) {
	text := "This is normal text with no special characters"
	result := EscapeMarkdown(text)
	assert.Equal(t, text, result)
}

func TestEscapeMarkdown_Backslash(t *testing.T) {
	result := EscapeMarkdown("test\\backslash")
	assert.Equal(t, "test\\\\backslash", result)
}

func TestEscapeMarkdown_Backtick(t *testing.T) {
	result := EscapeMarkdown("run `go test`")
	assert.Equal(t, "run \\`go test\\`", result)
}

func TestEscapeMarkdown_Asterisk(t *testing.T) {
	result := EscapeMarkdown("bold *text*")
	assert.Equal(t, "bold \\*text\\*", result)
}

func TestEscapeMarkdown_Underscore(t *testing.T) {
	result := EscapeMarkdown("variable_name")
	assert.Equal(t, "variable\\_name", result)
}

func TestEscapeMarkdown_Brackets(t *testing.T) {
	result := EscapeMarkdown("[link]")
	assert.Equal(t, "\\[link\\]", result)
}

func TestEscapeMarkdown_AngleBrackets(t *testing.T) {
	result := EscapeMarkdown("<script>")
	assert.Equal(t, "&lt;script&gt;", result)
}

func TestEscapeMarkdown_Pipe(t *testing.T) {
	result := EscapeMarkdown("a | b")
	assert.Equal(t, "a \\| b", result)
}

func TestEscapeMarkdown_Hash(t *testing.T) {
	result := EscapeMarkdown("issue #123")
	assert.Equal(t, "issue \\#123", result)
}

func TestEscapeMarkdown_CurlyBraces(t *testing.T) {
	result := EscapeMarkdown("text{with}braces")
	assert.Equal(t, "text\\{with\\}braces", result)
}

func TestEscapeMarkdown_UnicodeCharacters(t *testing.T) {
	text := "curriculum with unicode: α β γ"
	result := EscapeMarkdown(text)
	// Unicode should pass through unchanged
	assert.Equal(t, text, result)
}

func TestEscapeMarkdown_MixedContent(t *testing.T) {
	text := "Scenario-based practice for high_risk tasks | see [guide]"
	result := EscapeMarkdown(text)
	assert.Contains(t, result, "high\\_risk")
	assert.Contains(t, result, "\\|")
	assert.Contains(t, result, "\\[guide\\]")
	assert.Contains(t, result, "Scenario-based practice")
}
