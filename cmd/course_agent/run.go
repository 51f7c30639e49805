package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/marcus/course-designer/internal/config"
	"github.com/marcus/course-designer/internal/interview"
	"github.com/marcus/course-designer/internal/pipeline"
	"github.com/marcus/course-designer/internal/ranking"
	"github.com/marcus/course-designer/internal/types"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full course design pipeline end-to-end",
	Long: `Orchestrates the entire course design process: ingestion -> analysis + interview -> scoring -> strategy ranking -> module outline -> rendering.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath  string
	runFiles       []string
	runDir         string
	runURL         string
	runAnswers     string
	runTitle       string
	runAudience    string
	runTemplate    string
	runMaxRecs     int
	runMaxModules  int
	runOutputDir   string
	runAPIKey      string
	runUseBrowser  bool
	runVerbose     bool
	runDatabaseURL string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringSliceVarP(&runFiles, "file", "f", nil, "Path to a source document (repeatable; mutually exclusive with --dir/--url)")
	runCommand.Flags().StringVarP(&runDir, "dir", "d", "", "Directory of source documents (mutually exclusive with --file/--url)")
	runCommand.Flags().StringVarP(&runURL, "url", "u", "", "URL to fetch source content from (mutually exclusive with --file/--dir)")
	runCommand.Flags().StringVarP(&runAnswers, "answers", "a", "", "Path to SME interview answers JSON file (optional)")
	runCommand.Flags().StringVarP(&runTitle, "title", "t", "", "Course title")
	runCommand.Flags().StringVar(&runAudience, "audience", "", "Target learner audience")
	runCommand.Flags().StringVar(&runTemplate, "template", "", "Path to design brief template")
	runCommand.Flags().IntVar(&runMaxRecs, "max-recommendations", 0, "Maximum strategies to recommend")
	runCommand.Flags().IntVar(&runMaxModules, "max-modules", 0, "Maximum modules in the outline")
	runCommand.Flags().StringVarP(&runOutputDir, "out", "o", "", "Output directory for rendered artifacts")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence (optional; runs work without a db)
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("file") {
		cfg.Sources = runFiles
	}
	if cmd.Flags().Changed("dir") {
		cfg.SourceDir = runDir
	}
	if cmd.Flags().Changed("url") {
		cfg.SourceURL = runURL
	}
	if cmd.Flags().Changed("answers") {
		cfg.Answers = runAnswers
	}
	if cmd.Flags().Changed("title") {
		cfg.CourseTitle = runTitle
	}
	if cmd.Flags().Changed("audience") {
		cfg.Audience = runAudience
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = runTemplate
	}
	if cmd.Flags().Changed("max-recommendations") {
		cfg.MaxRecommendations = runMaxRecs
	}
	if cmd.Flags().Changed("max-modules") {
		cfg.MaxModules = runMaxModules
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Template:           "templates/design_brief.md.tmpl",
		MaxRecommendations: ranking.DefaultMaxRecommendations,
		MaxModules:         6,
		OutputDir:          "output",
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate required fields
	sourceKinds := 0
	if len(cfg.Sources) > 0 {
		sourceKinds++
	}
	if cfg.SourceDir != "" {
		sourceKinds++
	}
	if cfg.SourceURL != "" {
		sourceKinds++
	}
	if sourceKinds == 0 {
		return fmt.Errorf("one of --file, --dir or --url must be provided (via flag or config)")
	}
	if sourceKinds > 1 {
		return fmt.Errorf("--file, --dir and --url are mutually exclusive; provide only one")
	}

	// Step 5: API Key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Step 6: Database URL is optional; fall back to env when unset
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	// Step 7: Pre-collected SME answers, if provided
	var interviewProfile *types.InterviewProfile
	if cfg.Answers != "" {
		content, err := os.ReadFile(cfg.Answers)
		if err != nil {
			return fmt.Errorf("failed to read answers file: %w", err)
		}
		var answered map[string]string
		if err := json.Unmarshal(content, &answered); err != nil {
			return fmt.Errorf("failed to parse answers file: %w", err)
		}
		base := interview.BaseQuestions()
		interviewProfile = interview.BuildProfile(answersFromMap(base, answered), completionRatio(base, answered))
	}

	opts := pipeline.RunOptions{
		SourcePaths:        cfg.Sources,
		SourceDir:          cfg.SourceDir,
		SourceURL:          cfg.SourceURL,
		CourseTitle:        cfg.CourseTitle,
		Interview:          interviewProfile,
		MaxRecommendations: cfg.MaxRecommendations,
		MaxModules:         cfg.MaxModules,
		OutputDir:          cfg.OutputDir,
		TemplatePath:       cfg.Template,
		APIKey:             cfg.APIKey,
		UseBrowser:         cfg.UseBrowser,
		Verbose:            cfg.Verbose,
		DatabaseURL:        cfg.DatabaseURL,
	}

	result, err := pipeline.RunPipeline(ctx, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "\nPipeline complete\n")
	_, _ = fmt.Fprintf(os.Stdout, "Learning map: %s\n", result.LearningMapPath)
	if result.BriefPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Design brief: %s\n", result.BriefPath)
	}

	return nil
}
