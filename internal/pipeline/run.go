// Package pipeline provides the high-level orchestration for the course design process.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/marcus/course-designer/internal/analysis"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/ingestion"
	"github.com/marcus/course-designer/internal/observability"
	"github.com/marcus/course-designer/internal/outline"
	"github.com/marcus/course-designer/internal/recommend"
	"github.com/marcus/course-designer/internal/rendering"
	"github.com/marcus/course-designer/internal/types"
	"github.com/marcus/course-designer/internal/validation"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	SourcePaths        []string
	SourceDir          string
	SourceURL          string
	CourseTitle        string
	Interview          *types.InterviewProfile // Optional: pre-collected SME answers
	MaxRecommendations int
	MaxModules         int
	OutputDir          string
	TemplatePath       string
	APIKey             string
	UseBrowser         bool
	Verbose            bool
	DatabaseURL        string
	OnProgress         ProgressCallback
}

// RunResult holds every artifact an end-to-end run produces.
type RunResult struct {
	RunID           uuid.UUID
	Profile         *types.ContentProfile
	Interview       *types.InterviewProfile
	Recommendations *types.StrategyRecommendations
	Outline         *types.ModuleOutline
	LearningMapPath string
	BriefPath       string
}

// AnalysisBranchResult holds the outputs from the content analysis branch
type AnalysisBranchResult struct {
	Profile *types.ContentProfile
	Summary string
}

// InterviewBranchResult holds the outputs from the interview processing branch
type InterviewBranchResult struct {
	Profile  *types.InterviewProfile
	Insights *types.SMEInsights
}

// logPrefix is used to distinguish concurrent log output
type logPrefix string

const (
	prefixAnalysis  logPrefix = "[Analysis]  "
	prefixInterview logPrefix = "[Interview] "
)

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

// RunPipeline orchestrates the full course design pipeline
func RunPipeline(ctx context.Context, opts RunOptions) (*RunResult, error) {

	// Initialize observability printer for verbose output
	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	// Step 1: Ingest source documents
	fmt.Printf("Step 1/7: Ingesting source documents...\n")
	sources, err := ingestSources(ctx, &opts)
	if err != nil {
		return nil, fmt.Errorf("source ingestion failed: %w", err)
	}
	emitProgress(&opts, db.StepSourceContent, db.StepCategoryIngestion,
		fmt.Sprintf("Ingested %d source documents", sources.FileCount()), nil)

	courseTitle := opts.CourseTitle
	if courseTitle == "" {
		if titles := sources.Titles(); len(titles) > 0 {
			courseTitle = titles[0]
		}
	}

	// Create the run record before the parallel phase so both branches can
	// persist artifacts against it.
	if database != nil {
		runID, err = database.CreateRun(ctx, courseTitle, "", sourceRef(&opts))
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
		} else {
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
			}
			_ = database.SaveTextArtifact(ctx, runID, db.StepSourceContent, db.StepCategoryIngestion, sources.CombinedText())
			_ = database.SaveArtifact(ctx, runID, db.StepSourceMetadata, db.StepCategoryIngestion, sources.Metadata())
		}
	}

	// =========================================================================
	// PARALLEL EXECUTION: Analysis Branch + Interview Branch
	// =========================================================================
	g, gCtx := errgroup.WithContext(ctx)

	var analysisResult *AnalysisBranchResult
	var interviewResult *InterviewBranchResult
	var anaMu, intMu sync.Mutex // Protect result assignments

	// Analysis Branch (Steps 2-3)
	g.Go(func() error {
		result, err := runAnalysisBranch(gCtx, opts, sources, printer, database, runID)
		if err != nil {
			return fmt.Errorf("analysis branch failed: %w", err)
		}
		anaMu.Lock()
		analysisResult = result
		anaMu.Unlock()
		return nil
	})

	// Interview Branch (Step 4)
	g.Go(func() error {
		result, err := runInterviewBranch(gCtx, opts, printer, database, runID)
		if err != nil {
			return fmt.Errorf("interview branch failed: %w", err)
		}
		intMu.Lock()
		interviewResult = result
		intMu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		if database != nil && runID != uuid.Nil {
			_ = database.CompleteRun(ctx, runID, "failed")
		}
		return nil, err
	}
	// =========================================================================

	contentProfile := analysisResult.Profile
	contentProfile.FileCount = sources.FileCount()
	interviewProfile := interviewResult.Profile

	// Step 5: Score and rank through the recommendation engine
	fmt.Printf("Step 5/7: Scoring content and ranking strategies...\n")
	if err := validation.ValidateProfiles(contentProfile, interviewProfile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}

	maxRecs := opts.MaxRecommendations
	recommendations := recommend.ComposeTop(contentProfile, interviewProfile, maxRecs)
	if opts.Verbose {
		printer.PrintContentScores(&recommendations.ContentScores)
		printer.PrintStrategies(recommendations.Strategies)
	}
	emitProgress(&opts, db.StepRecommendations, db.StepCategoryScoring,
		fmt.Sprintf("Ranked %d strategies, overall content score %d",
			len(recommendations.Strategies), recommendations.ContentScores.OverallScore), recommendations)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepContentScores, db.StepCategoryScoring, recommendations.ContentScores)
		_ = database.SaveArtifact(ctx, runID, db.StepRecommendations, db.StepCategoryScoring, recommendations)
		_ = PersistStrategyScores(ctx, database, runID, recommendations.Strategies)
	}

	// Step 6: Build the module outline
	fmt.Printf("Step 6/7: Building module outline...\n")
	moduleOutline, err := outline.Build(contentProfile, recommendations, outline.BuildOptions{
		CourseTitle: courseTitle,
		MaxModules:  opts.MaxModules,
	})
	if err != nil {
		return nil, fmt.Errorf("building module outline failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintOutline(moduleOutline)
	}
	emitProgress(&opts, db.StepModuleOutline, db.StepCategoryPlanning,
		fmt.Sprintf("Planned %d modules", moduleOutline.ModuleCount()), moduleOutline)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepModuleOutline, db.StepCategoryPlanning, moduleOutline)
	}

	// Step 7: Render the learning map and design brief
	fmt.Printf("Step 7/7: Rendering learning map...\n")
	result := &RunResult{
		RunID:           runID,
		Profile:         contentProfile,
		Interview:       interviewProfile,
		Recommendations: recommendations,
		Outline:         moduleOutline,
	}

	mapData := &rendering.LearningMapData{
		CourseTitle:     moduleOutline.CourseTitle,
		Profile:         contentProfile,
		Interview:       interviewProfile,
		Recommendations: recommendations,
		Outline:         moduleOutline,
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory failed: %w", err)
	}

	result.LearningMapPath = filepath.Join(outDir, "learning_map.xlsx")
	if err := rendering.WriteLearningMap(mapData, result.LearningMapPath); err != nil {
		return nil, fmt.Errorf("rendering learning map failed: %w", err)
	}

	brief, err := rendering.RenderBrief(mapData, opts.TemplatePath)
	if err != nil {
		fmt.Printf("Warning: Failed to render design brief: %v\n", err)
	} else {
		result.BriefPath = filepath.Join(outDir, "design_brief.md")
		if err := os.WriteFile(result.BriefPath, []byte(brief), 0644); err != nil {
			return nil, fmt.Errorf("writing design brief failed: %w", err)
		}
		if database != nil && runID != uuid.Nil {
			_ = database.SaveTextArtifact(ctx, runID, db.StepDesignBrief, db.StepCategoryRendering, brief)
		}
	}
	emitProgress(&opts, db.StepDesignBrief, db.StepCategoryRendering, "Rendered learning map and design brief", nil)

	// Mark run as completed
	if database != nil && runID != uuid.Nil {
		_ = database.CompleteRun(ctx, runID, "completed")
	}

	fmt.Printf("Done! Learning map written to %s\n", result.LearningMapPath)
	return result, nil
}

// ingestSources resolves the configured source into a SourceSet: explicit
// file paths, a directory of documents, or a URL.
func ingestSources(ctx context.Context, opts *RunOptions) (*ingestion.SourceSet, error) {
	switch {
	case opts.SourceURL != "":
		cleaned, metadata, err := ingestion.IngestFromURL(ctx, opts.SourceURL, opts.UseBrowser, opts.Verbose)
		if err != nil {
			return nil, err
		}
		return ingestion.FromCleanedText(cleaned, metadata), nil
	case opts.SourceDir != "":
		return ingestion.IngestDir(opts.SourceDir)
	case len(opts.SourcePaths) > 0:
		return ingestion.IngestPaths(opts.SourcePaths)
	default:
		return nil, fmt.Errorf("no source documents configured: provide file paths, a directory, or a URL")
	}
}

func sourceRef(opts *RunOptions) string {
	switch {
	case opts.SourceURL != "":
		return opts.SourceURL
	case opts.SourceDir != "":
		return opts.SourceDir
	case len(opts.SourcePaths) > 0:
		return opts.SourcePaths[0]
	default:
		return ""
	}
}

// runAnalysisBranch executes Steps 2-3: LLM content analysis and summarization
func runAnalysisBranch(ctx context.Context, opts RunOptions, sources *ingestion.SourceSet, printer *observability.Printer, database *db.DB, runID uuid.UUID) (*AnalysisBranchResult, error) {
	prefix := prefixAnalysis

	fmt.Printf("%sStep 2/7: Analyzing content with LLM...\n", prefix)
	profile, err := analysis.AnalyzeSourceSet(ctx, sources, opts.APIKey)
	if err != nil {
		return nil, fmt.Errorf("content analysis failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintContentProfile(profile)
	}
	emitProgress(&opts, db.StepContentProfile, db.StepCategoryAnalysis,
		fmt.Sprintf("Analyzed content: %s (%d topics)", profile.PrimaryContentType, profile.TopicCount()), profile)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepContentProfile, db.StepCategoryAnalysis, profile)
	}

	fmt.Printf("%sStep 3/7: Summarizing content...\n", prefix)
	summary, err := analysis.SummarizeContent(ctx, sources.CombinedText(), opts.APIKey)
	if err != nil {
		fmt.Printf("%sWarning: Content summarization failed: %v. Continuing without summary.\n", prefix, err)
		summary = ""
	}

	fmt.Printf("%s✅ Analysis branch complete.\n", prefix)
	return &AnalysisBranchResult{Profile: profile, Summary: summary}, nil
}

// runInterviewBranch executes Step 4: SME answer processing. With no
// pre-collected answers the run proceeds on an empty interview; the scoring
// engine floors its interview-driven terms rather than failing.
func runInterviewBranch(ctx context.Context, opts RunOptions, printer *observability.Printer, database *db.DB, runID uuid.UUID) (*InterviewBranchResult, error) {
	prefix := prefixInterview

	fmt.Printf("%sStep 4/7: Processing SME interview answers...\n", prefix)

	interviewProfile := opts.Interview
	if interviewProfile == nil {
		fmt.Printf("%sNo interview answers provided, scoring on content signals only.\n", prefix)
		interviewProfile = &types.InterviewProfile{}
	}

	var insights *types.SMEInsights
	if interviewProfile.AnswerCount() > 0 && opts.APIKey != "" {
		var err error
		insights, err = analysis.ExtractSMEInsights(ctx, interviewProfile.JoinedAnswers(), opts.APIKey)
		if err != nil {
			fmt.Printf("%sWarning: SME insight extraction failed: %v. Continuing with raw answers.\n", prefix, err)
		} else if database != nil && runID != uuid.Nil {
			_ = database.SaveArtifact(ctx, runID, db.StepInterviewNotes, db.StepCategoryInterview, insights)
		}
	}

	if opts.Verbose {
		printer.PrintInterviewProfile(interviewProfile)
	}
	emitProgress(&opts, db.StepInterviewProfile, db.StepCategoryInterview,
		fmt.Sprintf("Interview profile ready: %d answers, %.0f%% complete",
			interviewProfile.AnswerCount(), interviewProfile.Completion()), interviewProfile)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepInterviewProfile, db.StepCategoryInterview, interviewProfile)
	}

	fmt.Printf("%s✅ Interview branch complete.\n", prefix)
	return &InterviewBranchResult{Profile: interviewProfile, Insights: insights}, nil
}

// PersistStrategyScores mirrors the ranked strategies into the relational
// strategy-score table used for cross-run reporting.
func PersistStrategyScores(ctx context.Context, database *db.DB, runID uuid.UUID, strategies []types.ScoredStrategy) error {
	inputs := make([]db.RunStrategyScoreInput, 0, len(strategies))
	for _, s := range strategies {
		inputs = append(inputs, db.RunStrategyScoreInput{
			StrategyName: s.StrategyName,
			Rank:         s.Rank,
			Composite:    s.Score,
			Reasoning:    s.Reasoning,
		})
	}
	_, err := database.SaveRunStrategyScores(ctx, runID, inputs)
	return err
}
