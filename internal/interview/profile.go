package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/llm"
	"github.com/marcus/course-designer/internal/prompts"
	"github.com/marcus/course-designer/internal/types"
)

// BuildProfile assembles the interview profile from a session's answer rows.
// Only answered questions contribute; completion reflects the asked/answered
// ratio at the time of the call.
func BuildProfile(answers []db.InterviewAnswer, completion float64) *types.InterviewProfile {
	profile := &types.InterviewProfile{
		Answers:              make(map[string]string),
		CompletionPercentage: completion,
	}
	for _, a := range answers {
		if a.Answered() {
			profile.Answers[a.QuestionKey] = *a.Answer
		}
	}
	return profile
}

// SummarizeAnswers produces a short plain-language summary of the interview
// for the learning map overview
func SummarizeAnswers(ctx context.Context, answers []db.InterviewAnswer, apiKey string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("API key required for answer summary")
	}

	block := answerBlock(answers)
	if block == "" {
		return "", fmt.Errorf("no answered questions to summarize")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	template := prompts.MustGet("interview.json", "answer-summary")
	prompt := prompts.Format(template, map[string]string{
		"AnswerBlock": block,
	})

	summary, err := client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("failed to summarize answers: %w", err)
	}

	return strings.TrimSpace(summary), nil
}

// answerBlock renders answered question/answer pairs for the summary prompt
func answerBlock(answers []db.InterviewAnswer) string {
	var sb strings.Builder
	for _, a := range answers {
		if !a.Answered() {
			continue
		}
		sb.WriteString("Q: ")
		sb.WriteString(a.Question)
		sb.WriteString("\nA: ")
		sb.WriteString(*a.Answer)
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
