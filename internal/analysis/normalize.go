package analysis

import "strings"

// topicNormalizations maps common topic variants to canonical names
var topicNormalizations = map[string]string{
	"sop":                  "standard operating procedures",
	"sops":                 "standard operating procedures",
	"on-boarding":          "onboarding",
	"on boarding":          "onboarding",
	"handwashing":          "hand hygiene",
	"hand washing":         "hand hygiene",
	"infection prevention": "infection control",
	"health and safety":    "workplace safety",
	"h&s":                  "workplace safety",
	"qa":                   "quality assurance",
	"qc":                   "quality control",
	"elearning":            "e-learning",
	"cybersecurity":        "security awareness",
	"cyber security":       "security awareness",
}

// NormalizeTopic normalizes a topic label to its canonical form:
// lowercased, whitespace collapsed, known variants mapped.
func NormalizeTopic(topic string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(topic), " "))
	if normalized == "" {
		return ""
	}
	if canonical, ok := topicNormalizations[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeTopics normalizes and deduplicates a topic list, preserving the
// order of first appearance. Empty entries are dropped.
func NormalizeTopics(topics []string) []string {
	if len(topics) == 0 {
		return topics
	}

	normalized := make([]string, 0, len(topics))
	seen := make(map[string]bool)

	for _, topic := range topics {
		t := NormalizeTopic(topic)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		normalized = append(normalized, t)
	}

	return normalized
}

// normalizeContentType lowercases and collapses whitespace in a content type
// label. Unlike topics there is no canonical vocabulary: the scoring tables
// match on substrings, so preserving the model's wording matters.
func normalizeContentType(contentType string) string {
	return strings.ToLower(strings.Join(strings.Fields(contentType), " "))
}
