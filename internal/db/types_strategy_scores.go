package db

import (
	"time"

	"github.com/google/uuid"
)

// RunStrategyScore represents a strategy's scored fit persisted for a design run.
// Rows are ordered by rank, 1 being the strongest recommendation.
type RunStrategyScore struct {
	ID              uuid.UUID `json:"id"`
	RunID           uuid.UUID `json:"run_id"`
	StrategyName    string    `json:"strategy_name"`
	ContentMatch    float64   `json:"content_match"`
	SMEMatch        float64   `json:"sme_match"`
	Feasibility     float64   `json:"feasibility"`
	InnovationBonus float64   `json:"innovation_bonus"`
	Composite       float64   `json:"composite"`
	Reasoning       *string   `json:"reasoning,omitempty"`
	Rank            int       `json:"rank"`
	CreatedAt       time.Time `json:"created_at"`
}

// RunStrategyScoreInput is used when saving strategy scores for a run
type RunStrategyScoreInput struct {
	StrategyName    string  `json:"strategy_name"`
	ContentMatch    float64 `json:"content_match"`
	SMEMatch        float64 `json:"sme_match"`
	Feasibility     float64 `json:"feasibility"`
	InnovationBonus float64 `json:"innovation_bonus"`
	Composite       float64 `json:"composite"`
	Reasoning       string  `json:"reasoning,omitempty"`
	Rank            int     `json:"rank"`
}

// StrategyUsage aggregates how often a strategy was recommended across runs
type StrategyUsage struct {
	StrategyName string  `json:"strategy_name"`
	Runs         int     `json:"runs"`
	AvgComposite float64 `json:"avg_composite"`
}
