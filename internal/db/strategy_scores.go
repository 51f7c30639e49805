package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Run Strategy Score Methods
// -----------------------------------------------------------------------------

// SaveRunStrategyScores saves ranked strategy scores for a design run
func (db *DB) SaveRunStrategyScores(ctx context.Context, runID uuid.UUID, scores []RunStrategyScoreInput) ([]RunStrategyScore, error) {
	// Delete existing scores for this run (upsert behavior)
	_, err := db.pool.Exec(ctx, "DELETE FROM run_strategy_scores WHERE run_id = $1", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear existing strategy scores: %w", err)
	}

	var result []RunStrategyScore
	for _, input := range scores {
		var rs RunStrategyScore
		err := db.pool.QueryRow(ctx,
			`INSERT INTO run_strategy_scores (run_id, strategy_name, content_match, sme_match,
			                                   feasibility, innovation_bonus, composite,
			                                   reasoning, rank)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id, run_id, strategy_name, content_match, sme_match, feasibility,
			           innovation_bonus, composite, reasoning, rank, created_at`,
			runID, input.StrategyName, input.ContentMatch, input.SMEMatch,
			input.Feasibility, input.InnovationBonus, input.Composite,
			nullIfEmpty(input.Reasoning), input.Rank,
		).Scan(&rs.ID, &rs.RunID, &rs.StrategyName, &rs.ContentMatch, &rs.SMEMatch,
			&rs.Feasibility, &rs.InnovationBonus, &rs.Composite, &rs.Reasoning,
			&rs.Rank, &rs.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to save strategy score: %w", err)
		}
		result = append(result, rs)
	}

	return result, nil
}

// GetRunStrategyScores retrieves strategy scores for a design run ordered by rank
func (db *DB) GetRunStrategyScores(ctx context.Context, runID uuid.UUID) ([]RunStrategyScore, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, strategy_name, content_match, sme_match, feasibility,
		        innovation_bonus, composite, reasoning, rank, created_at
		 FROM run_strategy_scores
		 WHERE run_id = $1
		 ORDER BY rank`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy scores: %w", err)
	}
	defer rows.Close()

	var scores []RunStrategyScore
	for rows.Next() {
		var rs RunStrategyScore
		if err := rows.Scan(&rs.ID, &rs.RunID, &rs.StrategyName, &rs.ContentMatch,
			&rs.SMEMatch, &rs.Feasibility, &rs.InnovationBonus, &rs.Composite,
			&rs.Reasoning, &rs.Rank, &rs.CreatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, rs)
	}
	return scores, nil
}

// GetTopStrategiesAcrossRuns returns the most frequently recommended strategies
// across all runs, with their average composite score
func (db *DB) GetTopStrategiesAcrossRuns(ctx context.Context, limit int) ([]StrategyUsage, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT strategy_name, COUNT(*) as runs, AVG(composite) as avg_composite
		 FROM run_strategy_scores
		 GROUP BY strategy_name
		 ORDER BY runs DESC, avg_composite DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get top strategies: %w", err)
	}
	defer rows.Close()

	var usage []StrategyUsage
	for rows.Next() {
		var su StrategyUsage
		if err := rows.Scan(&su.StrategyName, &su.Runs, &su.AvgComposite); err != nil {
			return nil, err
		}
		usage = append(usage, su)
	}
	return usage, nil
}
