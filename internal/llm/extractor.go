// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ContentAnalysis", "SMEInsights")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ContentAnalysisSchema returns the extraction schema for source-material
// classification. Extracts topics, complexity, content type, and quality
// readings in the shape the scoring engine consumes.
func ContentAnalysisSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ContentAnalysis",
		Description: `You are an expert instructional designer reviewing source material for course conversion.
Your task is to classify the material and rate its quality.
Base every field on the text itself - do not assume context that is not present.`,
		Fields: []SchemaField{
			{
				Name:        "topics",
				Type:        "[\"string\"]",
				Description: "Distinct subject-matter topics covered, most prominent first, 3-8 entries when possible",
				Required:    true,
			},
			{
				Name:        "complexity_level",
				Type:        "\"string\"",
				Description: "Overall complexity: one of low, medium, high",
				Required:    true,
			},
			{
				Name:        "primary_content_type",
				Type:        "\"string\"",
				Description: "Dominant content style (e.g., 'technical documentation', 'healthcare training', 'compliance policy')",
				Required:    true,
			},
			{
				Name:        "quality",
				Type:        "{\"clarity\": number, \"completeness\": number, \"structure\": number, \"currency\": number}",
				Description: "Quality ratings from 0-100; omit a rating rather than guessing when the text gives no signal",
				Required:    false,
			},
		},
	}
}

// SMEInsightsSchema returns the extraction schema for subject-matter-expert
// interview answers. Extracts the audience, constraints, and success measures
// the learning map's overview reports.
func SMEInsightsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "SMEInsights",
		Description: `You are an expert instructional designer summarizing interview answers from a subject-matter expert.
Extract the concrete facts the expert stated about the learner audience and delivery constraints.
Do not invent preferences the expert did not express.`,
		Fields: []SchemaField{
			{
				Name:        "audience",
				Type:        "\"string\"",
				Description: "Who the learners are, in the expert's words",
				Required:    true,
			},
			{
				Name:        "delivery_constraints",
				Type:        "[\"string\"]",
				Description: "Time, format, or platform constraints the expert mentioned",
				Required:    false,
			},
			{
				Name:        "success_measures",
				Type:        "[\"string\"]",
				Description: "How the expert would judge the course successful",
				Required:    false,
			},
			{
				Name:        "emphasized_preferences",
				Type:        "[\"string\"]",
				Description: "Teaching approaches the expert explicitly asked for",
				Required:    false,
			},
		},
	}
}
