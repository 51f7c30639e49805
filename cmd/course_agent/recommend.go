package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/observability"
	"github.com/marcus/course-designer/internal/pipeline"
	"github.com/marcus/course-designer/internal/ranking"
	"github.com/marcus/course-designer/internal/recommend"
	"github.com/marcus/course-designer/internal/types"
	"github.com/marcus/course-designer/internal/validation"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank delivery strategies against the content and interview profiles",
	Long:  "Score every strategy in the catalog against a ContentProfile and an optional InterviewProfile, rank them, and output the top recommendations with content scores and reasoning.",
	RunE:  runRecommend,
}

var (
	recommendContentFile   string
	recommendInterviewFile string
	recommendOutputFile    string
	recommendRunID         string
	recommendDatabaseURL   string
	recommendMax           int
	recommendVerbose       bool
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendContentFile, "content", "c", "", "Path to content_profile.json")
	recommendCmd.Flags().StringVar(&recommendInterviewFile, "interview", "", "Path to interview_profile.json (optional)")
	recommendCmd.Flags().StringVarP(&recommendOutputFile, "out", "o", "", "Path to output JSON file")
	recommendCmd.Flags().StringVar(&recommendRunID, "run-id", "", "Run ID to load profiles from database (required if not using --content)")
	recommendCmd.Flags().StringVar(&recommendDatabaseURL, "db-url", "", "Database URL (required with --run-id)")
	recommendCmd.Flags().IntVar(&recommendMax, "max", ranking.DefaultMaxRecommendations, "Maximum number of recommended strategies")
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Print the ranked strategies")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	useDatabase := recommendRunID != ""
	useFiles := recommendContentFile != "" || recommendOutputFile != ""

	if useDatabase && useFiles {
		return fmt.Errorf("cannot use --run-id with --content/--out flags")
	}
	if !useDatabase && !useFiles {
		return fmt.Errorf("must provide either --run-id or --content/--out")
	}
	if recommendMax < 0 {
		return fmt.Errorf("max must not be negative, got %d", recommendMax)
	}

	ctx := context.Background()

	var content *types.ContentProfile
	var interviewProfile *types.InterviewProfile
	var database *db.DB
	var runID uuid.UUID
	var err error

	if useFiles {
		if recommendContentFile == "" || recommendOutputFile == "" {
			return fmt.Errorf("both --content and --out are required in file mode")
		}
		content, err = readContentProfile(recommendContentFile)
		if err != nil {
			return err
		}
		if recommendInterviewFile != "" {
			interviewProfile, err = readInterviewProfile(recommendInterviewFile)
			if err != nil {
				return err
			}
		}
	} else {
		runID, err = uuid.Parse(recommendRunID)
		if err != nil {
			return fmt.Errorf("invalid run-id: %w", err)
		}
		database, err = connectDatabase(ctx, recommendDatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		content, err = database.GetContentProfileByRunID(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load content profile: %w", err)
		}
		if content == nil {
			return fmt.Errorf("content profile not found for run %s", runID)
		}
		interviewProfile, err = database.GetInterviewProfileByRunID(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load interview profile: %w", err)
		}
	}

	if err := validation.ValidateProfiles(content, interviewProfile); err != nil {
		return fmt.Errorf("invalid input profiles: %w", err)
	}

	recommendations := recommend.ComposeTop(content, interviewProfile, recommendMax)
	if recommendVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintContentScores(recommendations.ContentScores)
		printer.PrintStrategies(recommendations.Strategies)
	}

	if useFiles {
		jsonBytes, err := json.MarshalIndent(recommendations, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(recommendOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if err := validateOutputSchema("schemas/strategy_recommendations.schema.json", recommendOutputFile); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Successfully ranked %d strategies\n", len(recommendations.Strategies))
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", recommendOutputFile)
		return nil
	}

	if err := database.SaveArtifact(ctx, runID, db.StepContentScores, db.StepCategoryScoring, recommendations.ContentScores); err != nil {
		return fmt.Errorf("failed to save content scores to database: %w", err)
	}
	if err := database.SaveArtifact(ctx, runID, db.StepRecommendations, db.StepCategoryScoring, recommendations); err != nil {
		return fmt.Errorf("failed to save recommendations to database: %w", err)
	}
	if err := pipeline.PersistStrategyScores(ctx, database, runID, recommendations.Strategies); err != nil {
		return fmt.Errorf("failed to save per-strategy scores: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully ranked %d strategies and saved to database (run: %s)\n", len(recommendations.Strategies), runID)
	return nil
}
