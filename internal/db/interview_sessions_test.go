package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterviewStatusConstants(t *testing.T) {
	assert.Equal(t, "pending", InterviewStatusPending)
	assert.Equal(t, "in_progress", InterviewStatusInProgress)
	assert.Equal(t, "completed", InterviewStatusCompleted)
	assert.Equal(t, "abandoned", InterviewStatusAbandoned)
}

func TestInterviewSessionCompletion(t *testing.T) {
	tests := []struct {
		name     string
		asked    int
		answered int
		expected float64
	}{
		{"no questions", 0, 0, 0},
		{"none answered", 6, 0, 0},
		{"half answered", 6, 3, 50},
		{"all answered", 6, 6, 100},
		{"single question", 1, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &InterviewSession{QuestionsAsked: tt.asked, QuestionsAnswered: tt.answered}
			assert.InDelta(t, tt.expected, s.Completion(), 0.001)
		})
	}
}

func TestInterviewAnswerAnswered(t *testing.T) {
	empty := ""
	text := "mostly new hires in their first quarter"

	unanswered := &InterviewAnswer{QuestionKey: "audience"}
	assert.False(t, unanswered.Answered())

	blank := &InterviewAnswer{QuestionKey: "audience", Answer: &empty}
	assert.False(t, blank.Answered())

	answered := &InterviewAnswer{QuestionKey: "audience", Answer: &text}
	assert.True(t, answered.Answered())
}
