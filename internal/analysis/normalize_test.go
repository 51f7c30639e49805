package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercases", "Hand Hygiene", "hand hygiene"},
		{"Trims whitespace", "  patient safety  ", "patient safety"},
		{"Collapses inner whitespace", "patient   safety", "patient safety"},
		{"SOP alias", "SOP", "standard operating procedures"},
		{"SOPs alias", "sops", "standard operating procedures"},
		{"Handwashing alias", "handwashing", "hand hygiene"},
		{"Hand washing alias", "Hand Washing", "hand hygiene"},
		{"Infection prevention alias", "Infection Prevention", "infection control"},
		{"QA alias", "QA", "quality assurance"},
		{"Cybersecurity alias", "cybersecurity", "security awareness"},
		{"Unknown passes through", "sterile processing", "sterile processing"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeTopic(tt.input)
			assert.Equal(t, tt.expected, result, "should normalize topic correctly")
		})
	}
}

func TestNormalizeTopics(t *testing.T) {
	input := []string{"SOP", "Hand Washing", "sops", "patient safety", "", "  ", "Patient Safety"}
	result := NormalizeTopics(input)

	assert.Equal(t, []string{
		"standard operating procedures",
		"hand hygiene",
		"patient safety",
	}, result)
}

func TestNormalizeTopicsEmpty(t *testing.T) {
	assert.Empty(t, NormalizeTopics(nil))
	assert.Empty(t, NormalizeTopics([]string{}))
}

func TestNormalizeContentType(t *testing.T) {
	assert.Equal(t, "healthcare training", normalizeContentType("  Healthcare   Training "))
	assert.Equal(t, "", normalizeContentType(""))
}
