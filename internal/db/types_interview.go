package db

import (
	"time"

	"github.com/google/uuid"
)

// InterviewSessionStatus constants
const (
	InterviewStatusPending    = "pending"
	InterviewStatusInProgress = "in_progress"
	InterviewStatusCompleted  = "completed"
	InterviewStatusAbandoned  = "abandoned"
)

// InterviewQuestionSource constants
const (
	QuestionSourceBase     = "base"
	QuestionSourceFollowUp = "followup"
)

// InterviewSession represents an SME interview session for a design run
type InterviewSession struct {
	ID                uuid.UUID  `json:"id"`
	RunID             *uuid.UUID `json:"run_id,omitempty"`
	Status            string     `json:"status"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
	QuestionsAsked    int        `json:"questions_asked"`
	QuestionsAnswered int        `json:"questions_answered"`
	Summary           *string    `json:"summary,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`

	// Denormalized data loaded via joins
	Answers []InterviewAnswer `json:"answers,omitempty"`
}

// Completion returns the answered fraction of the session as a percentage.
// A session with no questions reports 0.
func (s *InterviewSession) Completion() float64 {
	if s.QuestionsAsked <= 0 {
		return 0
	}
	return float64(s.QuestionsAnswered) / float64(s.QuestionsAsked) * 100
}

// InterviewAnswer represents a single question/answer pair in a session
type InterviewAnswer struct {
	ID          uuid.UUID  `json:"id"`
	SessionID   uuid.UUID  `json:"session_id"`
	QuestionKey string     `json:"question_key"`
	Question    string     `json:"question"`
	Answer      *string    `json:"answer,omitempty"`
	Source      string     `json:"source"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	AnsweredAt  *time.Time `json:"answered_at,omitempty"`
}

// Answered reports whether the question has a non-empty answer.
func (a *InterviewAnswer) Answered() bool {
	return a.Answer != nil && *a.Answer != ""
}

// InterviewSessionInput is used when creating a new interview session
type InterviewSessionInput struct {
	RunID *uuid.UUID `json:"run_id,omitempty"`
}

// InterviewQuestionInput is used when adding questions to a session
type InterviewQuestionInput struct {
	QuestionKey string `json:"question_key"`
	Question    string `json:"question"`
	Source      string `json:"source"`
}
