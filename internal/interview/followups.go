package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/llm"
	"github.com/marcus/course-designer/internal/prompts"
)

// Follow-up generation bounds
const (
	DefaultFollowUpCount = 3
	MaxFollowUpCount     = 5
)

// GenerateFollowUps asks the LLM for follow-up questions that fill gaps the
// answered questions left open. startIndex offsets the generated question
// keys so repeated rounds within a session stay unique.
func GenerateFollowUps(ctx context.Context, contentSummary string, answered map[string]string, count, startIndex int, apiKey string) ([]Question, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required for follow-up generation")
	}
	count = clampFollowUpCount(count)

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	template := prompts.MustGet("interview.json", "follow-up-questions")
	prompt := prompts.Format(template, map[string]string{
		"ContentSummary":    contentSummary,
		"AnsweredQuestions": answeredBlock(answered),
		"Count":             strconv.Itoa(count),
	})

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to generate follow-up questions: %w", err)
	}

	texts, err := parseFollowUpResponse(responseText)
	if err != nil {
		return nil, err
	}

	if len(texts) > count {
		texts = texts[:count]
	}

	questions := make([]Question, 0, len(texts))
	for i, text := range texts {
		questions = append(questions, Question{
			Key:    fmt.Sprintf("followup_%d", startIndex+i+1),
			Text:   text,
			Source: db.QuestionSourceFollowUp,
		})
	}
	return questions, nil
}

// parseFollowUpResponse parses the model's JSON array of question strings
func parseFollowUpResponse(responseText string) ([]string, error) {
	responseText = llm.CleanJSONBlock(responseText)

	var questions []string
	if err := json.Unmarshal([]byte(responseText), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse follow-up questions: %w", err)
	}

	cleaned := make([]string, 0, len(questions))
	for _, q := range questions {
		q = strings.TrimSpace(q)
		if q != "" {
			cleaned = append(cleaned, q)
		}
	}
	return cleaned, nil
}

// answeredBlock renders answered questions for the prompt, sorted by key so
// repeated calls build the same prompt
func answeredBlock(answered map[string]string) string {
	if len(answered) == 0 {
		return "(none yet)"
	}

	keys := make([]string, 0, len(answered))
	for k := range answered {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString("- ")
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(answered[k])
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// clampFollowUpCount bounds the requested count into [1, MaxFollowUpCount],
// defaulting when the caller passes zero or less
func clampFollowUpCount(count int) int {
	if count <= 0 {
		return DefaultFollowUpCount
	}
	if count > MaxFollowUpCount {
		return MaxFollowUpCount
	}
	return count
}
