package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/observability"
	"github.com/marcus/course-designer/internal/scoring"
	"github.com/marcus/course-designer/internal/types"
	"github.com/marcus/course-designer/internal/validation"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Calculate content scores from the content and interview profiles",
	Long:  "Calculate the three content scores (suitability, engagement, effectiveness) plus overall score and improvement recommendations from a ContentProfile and an optional InterviewProfile.",
	RunE:  runScore,
}

var (
	scoreContentFile   string
	scoreInterviewFile string
	scoreOutputFile    string
	scoreRunID         string
	scoreDatabaseURL   string
	scoreVerbose       bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreContentFile, "content", "c", "", "Path to content_profile.json")
	scoreCmd.Flags().StringVar(&scoreInterviewFile, "interview", "", "Path to interview_profile.json (optional)")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "out", "o", "", "Path to output JSON file")
	scoreCmd.Flags().StringVar(&scoreRunID, "run-id", "", "Run ID to load profiles from database (required if not using --content)")
	scoreCmd.Flags().StringVar(&scoreDatabaseURL, "db-url", "", "Database URL (required with --run-id)")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print the score breakdown")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	useDatabase := scoreRunID != ""
	useFiles := scoreContentFile != "" || scoreOutputFile != ""

	if useDatabase && useFiles {
		return fmt.Errorf("cannot use --run-id with --content/--out flags")
	}
	if !useDatabase && !useFiles {
		return fmt.Errorf("must provide either --run-id or --content/--out")
	}

	ctx := context.Background()

	var content *types.ContentProfile
	var interviewProfile *types.InterviewProfile
	var database *db.DB
	var runID uuid.UUID
	var err error

	if useFiles {
		if scoreContentFile == "" || scoreOutputFile == "" {
			return fmt.Errorf("both --content and --out are required in file mode")
		}
		content, err = readContentProfile(scoreContentFile)
		if err != nil {
			return err
		}
		if scoreInterviewFile != "" {
			interviewProfile, err = readInterviewProfile(scoreInterviewFile)
			if err != nil {
				return err
			}
		}
	} else {
		runID, err = uuid.Parse(scoreRunID)
		if err != nil {
			return fmt.Errorf("invalid run-id: %w", err)
		}
		database, err = connectDatabase(ctx, scoreDatabaseURL)
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

	scores := scoring.CalculateContentScores(content, interviewProfile)
	if scoreVerbose {
		observability.NewPrinter(os.Stdout).PrintContentScores(scores)
	}

	if useFiles {
		jsonBytes, err := json.MarshalIndent(scores, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(scoreOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if err := validateOutputSchema("schemas/content_scores.schema.json", scoreOutputFile); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Successfully calculated content scores (overall: %d)\n", scores.OverallScore)
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", scoreOutputFile)
		return nil
	}

	if err := database.SaveArtifact(ctx, runID, db.StepContentScores, db.StepCategoryScoring, scores); err != nil {
		return fmt.Errorf("failed to save content scores to database: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Successfully calculated content scores and saved to database (run: %s)\n", runID)
	return nil
}

func readContentProfile(path string) (*types.ContentProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content profile: %w", err)
	}
	var profile types.ContentProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse content profile: %w", err)
	}
	return &profile, nil
}

func readInterviewProfile(path string) (*types.InterviewProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interview profile: %w", err)
	}
	var profile types.InterviewProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse interview profile: %w", err)
	}
	return &profile, nil
}
