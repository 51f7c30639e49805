// Package interview provides the SME discovery interview: question generation,
// answer collection, and assembly of the interview profile the scoring engine
// consumes.
package interview

import "github.com/marcus/course-designer/internal/db"

// Question is a single interview question before it is persisted
type Question struct {
	Key    string
	Text   string
	Source string
}

// BaseQuestions returns the fixed discovery questions every interview opens
// with. Keys are stable identifiers the scoring engine's SME signals key off,
// so renaming one changes scoring behavior.
func BaseQuestions() []Question {
	return []Question{
		{
			Key:    "role",
			Text:   "What role does this content play in the learners' day-to-day work?",
			Source: db.QuestionSourceBase,
		},
		{
			Key:    "audience",
			Text:   "Who is the target audience, and how familiar are they with this material already?",
			Source: db.QuestionSourceBase,
		},
		{
			Key:    "objectives",
			Text:   "What should learners be able to do after completing the course?",
			Source: db.QuestionSourceBase,
		},
		{
			Key:    "format_preferences",
			Text:   "Which delivery formats work best for your learners: videos, hands-on practice, reading, group discussion?",
			Source: db.QuestionSourceBase,
		},
		{
			Key:    "assessment",
			Text:   "How should we verify that learners actually mastered the material?",
			Source: db.QuestionSourceBase,
		},
		{
			Key:    "constraints",
			Text:   "Are there time, platform, or scheduling constraints we should plan around?",
			Source: db.QuestionSourceBase,
		},
	}
}

// toInputs converts questions to the storage input shape
func toInputs(questions []Question) []db.InterviewQuestionInput {
	inputs := make([]db.InterviewQuestionInput, 0, len(questions))
	for _, q := range questions {
		inputs = append(inputs, db.InterviewQuestionInput{
			QuestionKey: q.Key,
			Question:    q.Text,
			Source:      q.Source,
		})
	}
	return inputs
}
