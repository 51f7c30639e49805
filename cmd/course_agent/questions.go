package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/interview"
	"github.com/marcus/course-designer/internal/observability"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print SME interview questions and build an interview profile from answers",
	Long: "Print the base SME discovery questions. With --answers and --summary, generate LLM follow-up " +
		"questions tailored to the content. With --answers and --profile-out, assemble an InterviewProfile JSON " +
		"the scoring engine consumes.",
	RunE: runQuestions,
}

var (
	questionsSummaryFile string
	questionsAnswersFile string
	questionsFollowUps   int
	questionsProfileOut  string
	questionsAPIKey      string
)

func init() {
	questionsCmd.Flags().StringVar(&questionsSummaryFile, "summary", "", "Path to a content summary text file (enables follow-up generation)")
	questionsCmd.Flags().StringVarP(&questionsAnswersFile, "answers", "a", "", "Path to a JSON file mapping question keys to answers")
	questionsCmd.Flags().IntVar(&questionsFollowUps, "followups", 0, "Number of LLM follow-up questions to generate (requires --summary and --answers)")
	questionsCmd.Flags().StringVar(&questionsProfileOut, "profile-out", "", "Path to write the assembled interview_profile.json")
	questionsCmd.Flags().StringVar(&questionsAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(_ *cobra.Command, _ []string) error {
	base := interview.BaseQuestions()

	var answered map[string]string
	if questionsAnswersFile != "" {
		content, err := os.ReadFile(questionsAnswersFile)
		if err != nil {
			return fmt.Errorf("failed to read answers file: %w", err)
		}
		if err := json.Unmarshal(content, &answered); err != nil {
			return fmt.Errorf("failed to parse answers file: %w", err)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Discovery questions:\n")
	for i, q := range base {
		marker := " "
		if _, ok := answered[q.Key]; ok {
			marker = "x"
		}
		_, _ = fmt.Fprintf(os.Stdout, "  [%s] %d. (%s) %s\n", marker, i+1, q.Key, q.Text)
	}

	if questionsFollowUps > 0 {
		if questionsSummaryFile == "" || questionsAnswersFile == "" {
			return fmt.Errorf("--followups requires both --summary and --answers")
		}
		apiKey, err := resolveAPIKey(questionsAPIKey)
		if err != nil {
			return err
		}
		summary, err := os.ReadFile(questionsSummaryFile)
		if err != nil {
			return fmt.Errorf("failed to read summary file: %w", err)
		}

		followUps, err := interview.GenerateFollowUps(context.Background(), string(summary), answered, questionsFollowUps, len(base), apiKey)
		if err != nil {
			return fmt.Errorf("failed to generate follow-up questions: %w", err)
		}

		_, _ = fmt.Fprintf(os.Stdout, "\nFollow-up questions:\n")
		for i, q := range followUps {
			_, _ = fmt.Fprintf(os.Stdout, "  %d. (%s) %s\n", len(base)+i+1, q.Key, q.Text)
		}
	}

	if questionsProfileOut != "" {
		if questionsAnswersFile == "" {
			return fmt.Errorf("--profile-out requires --answers")
		}

		profile := interview.BuildProfile(answersFromMap(base, answered), completionRatio(base, answered))
		observability.NewPrinter(os.Stdout).PrintInterviewProfile(profile)

		jsonBytes, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(questionsProfileOut, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write profile: %w", err)
		}
		if err := validateOutputSchema("schemas/interview_profile.schema.json", questionsProfileOut); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Interview profile: %s\n", questionsProfileOut)
	}

	return nil
}

// answersFromMap pairs the answer map with the known questions so ad-hoc keys
// from the file still survive as extra answers, in deterministic order.
func answersFromMap(base []interview.Question, answered map[string]string) []db.InterviewAnswer {
	answers := make([]db.InterviewAnswer, 0, len(answered))
	seen := make(map[string]bool, len(answered))

	for i, q := range base {
		text, ok := answered[q.Key]
		if !ok {
			continue
		}
		a := text
		answers = append(answers, db.InterviewAnswer{
			QuestionKey: q.Key,
			Question:    q.Text,
			Answer:      &a,
			Source:      q.Source,
			Position:    i,
		})
		seen[q.Key] = true
	}

	extras := make([]string, 0)
	for key := range answered {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for i, key := range extras {
		a := answered[key]
		answers = append(answers, db.InterviewAnswer{
			QuestionKey: key,
			Question:    key,
			Answer:      &a,
			Source:      db.QuestionSourceFollowUp,
			Position:    len(base) + i,
		})
	}

	return answers
}

func completionRatio(base []interview.Question, answered map[string]string) float64 {
	if len(base) == 0 {
		return 0
	}
	count := 0
	for _, q := range base {
		if _, ok := answered[q.Key]; ok {
			count++
		}
	}
	ratio := float64(count) / float64(len(base)) * 100
	if ratio > 100 {
		ratio = 100
	}
	return ratio
}
