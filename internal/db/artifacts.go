package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/marcus/course-designer/internal/types"
)

// GetContentProfileByRunID loads the content profile from database for a run
func (db *DB) GetContentProfileByRunID(ctx context.Context, runID uuid.UUID) (*types.ContentProfile, error) {
	content, err := db.GetArtifact(ctx, runID, StepContentProfile)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var profile types.ContentProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content profile: %w", err)
	}
	return &profile, nil
}

// GetInterviewProfileByRunID loads the SME interview profile from database for a run
func (db *DB) GetInterviewProfileByRunID(ctx context.Context, runID uuid.UUID) (*types.InterviewProfile, error) {
	content, err := db.GetArtifact(ctx, runID, StepInterviewProfile)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var profile types.InterviewProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interview profile: %w", err)
	}
	return &profile, nil
}

// GetContentScoresByRunID loads content scores from database for a run
func (db *DB) GetContentScoresByRunID(ctx context.Context, runID uuid.UUID) (*types.ContentScoreResult, error) {
	content, err := db.GetArtifact(ctx, runID, StepContentScores)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var scores types.ContentScoreResult
	if err := json.Unmarshal(content, &scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content scores: %w", err)
	}
	return &scores, nil
}

// GetRecommendationsByRunID loads strategy recommendations from database for a run
func (db *DB) GetRecommendationsByRunID(ctx context.Context, runID uuid.UUID) (*types.StrategyRecommendations, error) {
	content, err := db.GetArtifact(ctx, runID, StepRecommendations)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var recs types.StrategyRecommendations
	if err := json.Unmarshal(content, &recs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal strategy recommendations: %w", err)
	}
	return &recs, nil
}

// GetModuleOutlineByRunID loads the module outline from database for a run
func (db *DB) GetModuleOutlineByRunID(ctx context.Context, runID uuid.UUID) (*types.ModuleOutline, error) {
	content, err := db.GetArtifact(ctx, runID, StepModuleOutline)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var outline types.ModuleOutline
	if err := json.Unmarshal(content, &outline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal module outline: %w", err)
	}
	return &outline, nil
}

// GetSourceMetadataByRunID loads raw source metadata from database for a run
func (db *DB) GetSourceMetadataByRunID(ctx context.Context, runID uuid.UUID) ([]byte, error) {
	return db.GetArtifact(ctx, runID, StepSourceMetadata)
}
