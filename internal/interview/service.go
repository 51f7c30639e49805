package interview

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/types"
)

// Service runs interview sessions against the persistent store. An empty API
// key disables follow-up generation and summaries but base questions and
// answer collection still work.
type Service struct {
	db     *db.DB
	apiKey string
}

// NewService creates an interview service
func NewService(database *db.DB, apiKey string) *Service {
	return &Service{db: database, apiKey: apiKey}
}

// Start opens a session for a run and seeds it with the base questions
func (s *Service) Start(ctx context.Context, runID *uuid.UUID) (*db.InterviewSession, []db.InterviewAnswer, error) {
	session, err := s.db.CreateInterviewSession(ctx, &db.InterviewSessionInput{RunID: runID})
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.db.AddInterviewQuestions(ctx, session.ID, toInputs(BaseQuestions()))
	if err != nil {
		return nil, nil, err
	}

	if err := s.db.UpdateInterviewSessionStatus(ctx, session.ID, db.InterviewStatusInProgress, ""); err != nil {
		return nil, nil, err
	}

	session, err = s.db.GetInterviewSessionByID(ctx, session.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, questions, nil
}

// Answer records one answer in the session
func (s *Service) Answer(ctx context.Context, sessionID uuid.UUID, questionKey, answer string) (*db.InterviewAnswer, error) {
	return s.db.SaveInterviewAnswer(ctx, sessionID, questionKey, answer)
}

// Questions lists the session's questions in interview order
func (s *Service) Questions(ctx context.Context, sessionID uuid.UUID) ([]db.InterviewAnswer, error) {
	return s.db.ListInterviewAnswers(ctx, sessionID)
}

// AskFollowUps generates follow-up questions from the answers so far and adds
// them to the session
func (s *Service) AskFollowUps(ctx context.Context, sessionID uuid.UUID, contentSummary string, count int) ([]db.InterviewAnswer, error) {
	answers, err := s.db.ListInterviewAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	answered := make(map[string]string)
	existingFollowUps := 0
	for _, a := range answers {
		if a.Answered() {
			answered[a.QuestionKey] = *a.Answer
		}
		if strings.HasPrefix(a.QuestionKey, "followup_") {
			existingFollowUps++
		}
	}

	questions, err := GenerateFollowUps(ctx, contentSummary, answered, count, existingFollowUps, s.apiKey)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}

	return s.db.AddInterviewQuestions(ctx, sessionID, toInputs(questions))
}

// Complete closes the session and returns the assembled interview profile.
// Summary generation failures are logged, not fatal: the profile is the
// artifact that matters downstream.
func (s *Service) Complete(ctx context.Context, sessionID uuid.UUID) (*types.InterviewProfile, error) {
	session, err := s.db.GetInterviewSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("interview session not found: %s", sessionID)
	}

	answers, err := s.db.ListInterviewAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.apiKey != "" {
		summary, err := SummarizeAnswers(ctx, answers, s.apiKey)
		if err != nil {
			log.Printf("[INTERVIEW] Answer summary failed: %v", err)
		} else if err := s.db.UpdateInterviewSessionSummary(ctx, sessionID, summary); err != nil {
			log.Printf("[INTERVIEW] Saving summary failed: %v", err)
		}
	}

	if err := s.db.UpdateInterviewSessionStatus(ctx, sessionID, db.InterviewStatusCompleted, ""); err != nil {
		return nil, err
	}

	return BuildProfile(answers, session.Completion()), nil
}
