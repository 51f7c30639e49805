package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/marcus/course-designer/internal/llm"
	"github.com/marcus/course-designer/internal/types"
)

// ExtractSMEInsights distills free-form interview answers into structured
// SME insights. Callers pass the joined answer text, not individual answers.
func ExtractSMEInsights(ctx context.Context, answerText string, apiKey string) (*types.SMEInsights, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}
	if strings.TrimSpace(answerText) == "" {
		return nil, &ValidationError{Message: "answer text is empty"}
	}

	config := llm.DefaultConfig()
	client, err := llm.NewClient(ctx, config, apiKey)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to create LLM client",
			Cause:   err,
		}
	}
	defer func() { _ = client.Close() }()

	prompt := llm.BuildExtractionPrompt(llm.SMEInsightsSchema(), answerText)

	// Simple extraction, TierLite keeps it cheap
	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to extract SME insights",
			Cause:   err,
		}
	}

	responseText = llm.CleanJSONBlock(responseText)

	var insights types.SMEInsights
	if err := json.Unmarshal([]byte(responseText), &insights); err != nil {
		return nil, &ParseError{
			Message: "failed to parse SME insights JSON",
			Cause:   err,
		}
	}

	postProcessInsights(&insights)

	return &insights, nil
}

// postProcessInsights trims entries and drops empties and duplicates
func postProcessInsights(insights *types.SMEInsights) {
	insights.Audience = strings.TrimSpace(insights.Audience)
	insights.DeliveryConstraints = cleanList(insights.DeliveryConstraints)
	insights.SuccessMeasures = cleanList(insights.SuccessMeasures)
	insights.EmphasizedPreferences = cleanList(insights.EmphasizedPreferences)
}

// cleanList trims, drops empties, and deduplicates while preserving order
func cleanList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, item)
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
