package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/observability"
	"github.com/marcus/course-designer/internal/outline"
	"github.com/marcus/course-designer/internal/rendering"
	"github.com/marcus/course-designer/internal/types"
	"github.com/spf13/cobra"
)

var renderMapCmd = &cobra.Command{
	Use:   "render-map",
	Short: "Build the module outline and render the learning map workbook and design brief",
	Long:  "Build a module outline from the content profile and strategy recommendations, then render the learning map Excel workbook and the Markdown design brief into the output directory.",
	RunE:  runRenderMap,
}

var (
	renderContentFile   string
	renderInterviewFile string
	renderRecsFile      string
	renderOutDir        string
	renderRunID         string
	renderDatabaseURL   string
	renderCourseTitle   string
	renderMaxModules    int
	renderTemplate      string
	renderVerbose       bool
)

func init() {
	renderMapCmd.Flags().StringVarP(&renderContentFile, "content", "c", "", "Path to content_profile.json")
	renderMapCmd.Flags().StringVar(&renderInterviewFile, "interview", "", "Path to interview_profile.json (optional)")
	renderMapCmd.Flags().StringVarP(&renderRecsFile, "recommendations", "r", "", "Path to strategy_recommendations.json")
	renderMapCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "Output directory (required)")
	renderMapCmd.Flags().StringVar(&renderRunID, "run-id", "", "Run ID to load artifacts from database (required if not using --content)")
	renderMapCmd.Flags().StringVar(&renderDatabaseURL, "db-url", "", "Database URL (required with --run-id)")
	renderMapCmd.Flags().StringVarP(&renderCourseTitle, "title", "t", "", "Course title for the learning map")
	renderMapCmd.Flags().IntVar(&renderMaxModules, "max-modules", outline.DefaultMaxModules, "Maximum number of course modules")
	renderMapCmd.Flags().StringVar(&renderTemplate, "template", "templates/design_brief.md.tmpl", "Path to the design brief template")
	renderMapCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print the module outline")

	if err := renderMapCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderMapCmd)
}

func runRenderMap(_ *cobra.Command, _ []string) error {
	useDatabase := renderRunID != ""
	useFiles := renderContentFile != "" || renderRecsFile != ""

	if useDatabase && useFiles {
		return fmt.Errorf("cannot use --run-id with --content/--recommendations flags")
	}
	if !useDatabase && !useFiles {
		return fmt.Errorf("must provide either --run-id or --content/--recommendations")
	}

	ctx := context.Background()

	var content *types.ContentProfile
	var interviewProfile *types.InterviewProfile
	var recommendations *types.StrategyRecommendations
	var database *db.DB
	var runID uuid.UUID
	var err error

	if useFiles {
		if renderContentFile == "" || renderRecsFile == "" {
			return fmt.Errorf("both --content and --recommendations are required in file mode")
		}
		content, err = readContentProfile(renderContentFile)
		if err != nil {
			return err
		}
		if renderInterviewFile != "" {
			interviewProfile, err = readInterviewProfile(renderInterviewFile)
			if err != nil {
				return err
			}
		}
		recsContent, err := os.ReadFile(renderRecsFile)
		if err != nil {
			return fmt.Errorf("failed to read recommendations: %w", err)
		}
		recommendations = &types.StrategyRecommendations{}
		if err := json.Unmarshal(recsContent, recommendations); err != nil {
			return fmt.Errorf("failed to parse recommendations: %w", err)
		}
	} else {
		runID, err = uuid.Parse(renderRunID)
		if err != nil {
			return fmt.Errorf("invalid run-id: %w", err)
		}
		database, err = connectDatabase(ctx, renderDatabaseURL)
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
		recommendations, err = database.GetRecommendationsByRunID(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load recommendations: %w", err)
		}
		if recommendations == nil {
			return fmt.Errorf("strategy recommendations not found for run %s", runID)
		}
	}

	moduleOutline, err := outline.Build(content, recommendations, outline.BuildOptions{
		CourseTitle: renderCourseTitle,
		MaxModules:  renderMaxModules,
	})
	if err != nil {
		return fmt.Errorf("failed to build module outline: %w", err)
	}
	if renderVerbose {
		observability.NewPrinter(os.Stdout).PrintOutline(moduleOutline)
	}

	if err := os.MkdirAll(renderOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outlinePath := filepath.Join(renderOutDir, "module_outline.json")
	outlineJSON, err := json.MarshalIndent(moduleOutline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}
	if err := os.WriteFile(outlinePath, outlineJSON, 0644); err != nil {
		return fmt.Errorf("failed to write outline: %w", err)
	}
	if err := validateOutputSchema("schemas/module_outline.schema.json", outlinePath); err != nil {
		return err
	}

	mapData := &rendering.LearningMapData{
		CourseTitle:     moduleOutline.CourseTitle,
		Profile:         content,
		Interview:       interviewProfile,
		Recommendations: recommendations,
		Outline:         moduleOutline,
		GeneratedAt:     time.Now().UTC(),
	}

	mapPath := filepath.Join(renderOutDir, "learning_map.xlsx")
	if err := rendering.WriteLearningMap(mapData, mapPath); err != nil {
		return fmt.Errorf("failed to write learning map: %w", err)
	}

	briefPath := filepath.Join(renderOutDir, "design_brief.md")
	brief, err := rendering.RenderBrief(mapData, renderTemplate)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not render design brief: %v\n", err)
		briefPath = ""
	} else if err := os.WriteFile(briefPath, []byte(brief), 0644); err != nil {
		return fmt.Errorf("failed to write design brief: %w", err)
	}

	if useDatabase {
		if err := database.SaveArtifact(ctx, runID, db.StepModuleOutline, db.StepCategoryPlanning, moduleOutline); err != nil {
			return fmt.Errorf("failed to save outline to database: %w", err)
		}
		if brief != "" {
			_ = database.SaveTextArtifact(ctx, runID, db.StepDesignBrief, db.StepCategoryRendering, brief)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully built %d-module outline\n", moduleOutline.ModuleCount())
	_, _ = fmt.Fprintf(os.Stdout, "Outline: %s\n", outlinePath)
	_, _ = fmt.Fprintf(os.Stdout, "Learning map: %s\n", mapPath)
	if briefPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Design brief: %s\n", briefPath)
	}

	return nil
}
