package analysis

import (
	"context"
	"strings"

	"github.com/marcus/course-designer/internal/llm"
	"github.com/marcus/course-designer/internal/prompts"
)

// maxSummaryInput bounds how much source text goes into the summary prompt.
// Long documents get truncated, the opening usually carries the framing.
const maxSummaryInput = 8000

// SummarizeContent produces the short content summary that seeds interview
// follow-up questions and the learning map overview.
func SummarizeContent(ctx context.Context, cleanedText string, apiKey string) (string, error) {
	if apiKey == "" {
		return "", &APICallError{Message: "API key is required"}
	}
	if strings.TrimSpace(cleanedText) == "" {
		return "", &ValidationError{Message: "source text is empty"}
	}

	config := llm.DefaultConfig()
	client, err := llm.NewClient(ctx, config, apiKey)
	if err != nil {
		return "", &APICallError{
			Message: "failed to create LLM client",
			Cause:   err,
		}
	}
	defer func() { _ = client.Close() }()

	template := prompts.MustGet("analysis.json", "content-summary")
	prompt := prompts.Format(template, map[string]string{
		"SourceText": truncateForPrompt(cleanedText, maxSummaryInput),
	})

	summary, err := client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &APICallError{
			Message: "failed to summarize content",
			Cause:   err,
		}
	}

	return strings.TrimSpace(summary), nil
}

// truncateForPrompt cuts text at the last line boundary under the limit
func truncateForPrompt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndexByte(cut, '\n'); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut
}
