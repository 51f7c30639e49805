package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/marcus/course-designer/internal/analysis"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/ingestion"
	"github.com/marcus/course-designer/internal/observability"
	"github.com/marcus/course-designer/internal/schemas"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze cleaned source content into a structured ContentProfile JSON",
	Long:  "Analyze cleaned course source text (or a source set) into a structured ContentProfile JSON that validates against the content_profile schema.",
	RunE:  runAnalyze,
}

var (
	analyzeInputFile   string
	analyzeSetFile     string
	analyzeOutputFile  string
	analyzeRunID       string
	analyzeDatabaseURL string
	analyzeAPIKey      string
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInputFile, "in", "i", "", "Path to cleaned text file")
	analyzeCmd.Flags().StringVar(&analyzeSetFile, "set", "", "Path to source_set.json for per-document fan-out analysis")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file")
	analyzeCmd.Flags().StringVar(&analyzeRunID, "run-id", "", "Run ID to load source content from database (required if not using --in/--set)")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "Database URL (required with --run-id)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print the resulting profile")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	useDatabase := analyzeRunID != ""
	useFiles := analyzeInputFile != "" || analyzeSetFile != ""

	if useDatabase && useFiles {
		return fmt.Errorf("cannot use --run-id with --in/--set flags")
	}
	if !useDatabase && !useFiles {
		return fmt.Errorf("must provide either --run-id or --in/--set")
	}
	if analyzeInputFile != "" && analyzeSetFile != "" {
		return fmt.Errorf("--in and --set are mutually exclusive; provide only one")
	}

	apiKey, err := resolveAPIKey(analyzeAPIKey)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if useFiles {
		if analyzeOutputFile == "" {
			return fmt.Errorf("--out is required in file mode")
		}

		var profile interface{}
		if analyzeSetFile != "" {
			setContent, err := os.ReadFile(analyzeSetFile)
			if err != nil {
				return fmt.Errorf("failed to read source set: %w", err)
			}
			var sources ingestion.SourceSet
			if err := json.Unmarshal(setContent, &sources); err != nil {
				return fmt.Errorf("failed to parse source set: %w", err)
			}
			result, err := analysis.AnalyzeSourceSet(ctx, &sources, apiKey)
			if err != nil {
				return fmt.Errorf("failed to analyze source set: %w", err)
			}
			if analyzeVerbose {
				observability.NewPrinter(os.Stdout).PrintContentProfile(result)
			}
			profile = result
		} else {
			inputContent, err := os.ReadFile(analyzeInputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			result, err := analysis.AnalyzeContent(ctx, string(inputContent), apiKey)
			if err != nil {
				return fmt.Errorf("failed to analyze content: %w", err)
			}
			if analyzeVerbose {
				observability.NewPrinter(os.Stdout).PrintContentProfile(result)
			}
			profile = result
		}

		jsonBytes, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(analyzeOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		if err := validateOutputSchema("schemas/content_profile.schema.json", analyzeOutputFile); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(os.Stdout, "Successfully analyzed source content\n")
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", analyzeOutputFile)
		return nil
	}

	// Database mode
	runID, err := uuid.Parse(analyzeRunID)
	if err != nil {
		return fmt.Errorf("invalid run-id: %w", err)
	}

	database, err := connectDatabase(ctx, analyzeDatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	cleanedText, err := database.GetTextArtifact(ctx, runID, db.StepSourceContent)
	if err != nil {
		return fmt.Errorf("failed to get source content: %w", err)
	}
	if cleanedText == "" {
		return fmt.Errorf("no source content found for run %s", runID)
	}

	profile, err := analysis.AnalyzeContent(ctx, cleanedText, apiKey)
	if err != nil {
		return fmt.Errorf("failed to analyze content: %w", err)
	}
	if analyzeVerbose {
		observability.NewPrinter(os.Stdout).PrintContentProfile(profile)
	}

	if err := database.SaveArtifact(ctx, runID, db.StepContentProfile, db.StepCategoryAnalysis, profile); err != nil {
		return fmt.Errorf("failed to save content profile to database: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully analyzed source content and saved to database (run: %s)\n", runID)
	return nil
}

// validateOutputSchema validates a written JSON file against a schema; schema load
// problems are downgraded to warnings so a relocated binary still works.
func validateOutputSchema(schemaRelPath, jsonPath string) error {
	schemaPath := schemas.ResolveSchemaPath(schemaRelPath)
	if schemaPath == "" {
		return nil
	}
	if err := schemas.ValidateJSON(schemaPath, jsonPath); err != nil {
		var validationErr *schemas.ValidationError
		var schemaLoadErr *schemas.SchemaLoadError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("generated JSON does not validate against schema: %w", err)
		} else if errors.As(err, &schemaLoadErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema (schema loading failed): %v\n", err)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
		}
	}
	return nil
}

func resolveAPIKey(flagValue string) (string, error) {
	apiKey := flagValue
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}
	return apiKey, nil
}

func connectDatabase(ctx context.Context, flagValue string) (*db.DB, error) {
	url := flagValue
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}
