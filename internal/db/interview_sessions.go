package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Interview Session Methods
// -----------------------------------------------------------------------------

// CreateInterviewSession creates a new interview session
func (db *DB) CreateInterviewSession(ctx context.Context, input *InterviewSessionInput) (*InterviewSession, error) {
	var session InterviewSession
	err := db.pool.QueryRow(ctx,
		`INSERT INTO interview_sessions (run_id, status)
		 VALUES ($1, $2)
		 RETURNING id, run_id, status, error_message, questions_asked, questions_answered,
		           summary, created_at, started_at, completed_at`,
		input.RunID, InterviewStatusPending,
	).Scan(&session.ID, &session.RunID, &session.Status, &session.ErrorMessage,
		&session.QuestionsAsked, &session.QuestionsAnswered, &session.Summary,
		&session.CreatedAt, &session.StartedAt, &session.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create interview session: %w", err)
	}

	return &session, nil
}

// GetInterviewSessionByID retrieves an interview session by ID
func (db *DB) GetInterviewSessionByID(ctx context.Context, id uuid.UUID) (*InterviewSession, error) {
	var session InterviewSession
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, status, error_message, questions_asked, questions_answered,
		        summary, created_at, started_at, completed_at
		 FROM interview_sessions WHERE id = $1`,
		id,
	).Scan(&session.ID, &session.RunID, &session.Status, &session.ErrorMessage,
		&session.QuestionsAsked, &session.QuestionsAnswered, &session.Summary,
		&session.CreatedAt, &session.StartedAt, &session.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview session: %w", err)
	}

	return &session, nil
}

// GetInterviewSessionByRunID retrieves the most recent interview session for a run
func (db *DB) GetInterviewSessionByRunID(ctx context.Context, runID uuid.UUID) (*InterviewSession, error) {
	var session InterviewSession
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, status, error_message, questions_asked, questions_answered,
		        summary, created_at, started_at, completed_at
		 FROM interview_sessions
		 WHERE run_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		runID,
	).Scan(&session.ID, &session.RunID, &session.Status, &session.ErrorMessage,
		&session.QuestionsAsked, &session.QuestionsAnswered, &session.Summary,
		&session.CreatedAt, &session.StartedAt, &session.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview session for run: %w", err)
	}

	return &session, nil
}

// UpdateInterviewSessionStatus updates the status of an interview session
func (db *DB) UpdateInterviewSessionStatus(ctx context.Context, id uuid.UUID, status string, errorMsg string) error {
	var err error
	now := time.Now()

	switch status {
	case InterviewStatusInProgress:
		_, err = db.pool.Exec(ctx,
			`UPDATE interview_sessions SET status = $1, started_at = $2 WHERE id = $3`,
			status, now, id)
	case InterviewStatusCompleted, InterviewStatusAbandoned:
		_, err = db.pool.Exec(ctx,
			`UPDATE interview_sessions SET status = $1, error_message = $2, completed_at = $3 WHERE id = $4`,
			status, nullIfEmpty(errorMsg), now, id)
	default:
		_, err = db.pool.Exec(ctx,
			`UPDATE interview_sessions SET status = $1 WHERE id = $2`,
			status, id)
	}

	if err != nil {
		return fmt.Errorf("failed to update interview session status: %w", err)
	}
	return nil
}

// UpdateInterviewSessionSummary stores the generated answer summary
func (db *DB) UpdateInterviewSessionSummary(ctx context.Context, id uuid.UUID, summary string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions SET summary = $1 WHERE id = $2`,
		nullIfEmpty(summary), id)
	if err != nil {
		return fmt.Errorf("failed to update interview session summary: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Interview Answer Methods
// -----------------------------------------------------------------------------

// AddInterviewQuestions adds questions to a session and bumps the asked count.
// Positions continue after the highest existing position in the session.
func (db *DB) AddInterviewQuestions(ctx context.Context, sessionID uuid.UUID, questions []InterviewQuestionInput) ([]InterviewAnswer, error) {
	var maxPosition int
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM interview_answers WHERE session_id = $1`,
		sessionID,
	).Scan(&maxPosition)
	if err != nil {
		return nil, fmt.Errorf("failed to read question positions: %w", err)
	}

	var result []InterviewAnswer
	for i, input := range questions {
		source := input.Source
		if source == "" {
			source = QuestionSourceBase
		}

		var ia InterviewAnswer
		err := db.pool.QueryRow(ctx,
			`INSERT INTO interview_answers (session_id, question_key, question, source, position)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (session_id, question_key) DO UPDATE
			 SET question = EXCLUDED.question, source = EXCLUDED.source
			 RETURNING id, session_id, question_key, question, answer, source, position, created_at, answered_at`,
			sessionID, input.QuestionKey, input.Question, source, maxPosition+i+1,
		).Scan(&ia.ID, &ia.SessionID, &ia.QuestionKey, &ia.Question, &ia.Answer,
			&ia.Source, &ia.Position, &ia.CreatedAt, &ia.AnsweredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to add interview question: %w", err)
		}
		result = append(result, ia)
	}

	if err := db.refreshInterviewCounts(ctx, sessionID); err != nil {
		return nil, err
	}

	return result, nil
}

// SaveInterviewAnswer records an answer for a question in a session
func (db *DB) SaveInterviewAnswer(ctx context.Context, sessionID uuid.UUID, questionKey, answer string) (*InterviewAnswer, error) {
	var ia InterviewAnswer
	err := db.pool.QueryRow(ctx,
		`UPDATE interview_answers
		 SET answer = $1, answered_at = NOW()
		 WHERE session_id = $2 AND question_key = $3
		 RETURNING id, session_id, question_key, question, answer, source, position, created_at, answered_at`,
		nullIfEmpty(answer), sessionID, questionKey,
	).Scan(&ia.ID, &ia.SessionID, &ia.QuestionKey, &ia.Question, &ia.Answer,
		&ia.Source, &ia.Position, &ia.CreatedAt, &ia.AnsweredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("question not found: %s", questionKey)
		}
		return nil, fmt.Errorf("failed to save interview answer: %w", err)
	}

	if err := db.refreshInterviewCounts(ctx, sessionID); err != nil {
		return nil, err
	}

	return &ia, nil
}

// ListInterviewAnswers retrieves all question/answer rows for a session in order
func (db *DB) ListInterviewAnswers(ctx context.Context, sessionID uuid.UUID) ([]InterviewAnswer, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, question_key, question, answer, source, position, created_at, answered_at
		 FROM interview_answers
		 WHERE session_id = $1
		 ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview answers: %w", err)
	}
	defer rows.Close()

	var answers []InterviewAnswer
	for rows.Next() {
		var ia InterviewAnswer
		if err := rows.Scan(&ia.ID, &ia.SessionID, &ia.QuestionKey, &ia.Question, &ia.Answer,
			&ia.Source, &ia.Position, &ia.CreatedAt, &ia.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, ia)
	}
	return answers, nil
}

// refreshInterviewCounts recomputes asked/answered counts from the answer rows
func (db *DB) refreshInterviewCounts(ctx context.Context, sessionID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET questions_asked = (
		       SELECT COUNT(*) FROM interview_answers WHERE session_id = $1),
		     questions_answered = (
		       SELECT COUNT(*) FROM interview_answers
		       WHERE session_id = $1 AND answer IS NOT NULL AND answer != '')
		 WHERE id = $1`,
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to refresh interview counts: %w", err)
	}
	return nil
}

// nullIfEmpty returns nil if the string is empty, otherwise a pointer to the string
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
