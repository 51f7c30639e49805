// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Sources
	Sources   []string `json:"sources,omitempty"`    // Paths to source document files
	SourceDir string   `json:"source_dir,omitempty"` // Directory of source documents
	SourceURL string   `json:"source_url,omitempty"` // URL to fetch source content from
	Answers   string   `json:"answers,omitempty"`    // Path to SME interview answers JSON file
	Template  string   `json:"template,omitempty"`   // Path to design brief Markdown template

	// Course info
	CourseTitle string `json:"course_title,omitempty"` // Display title for the course
	Audience    string `json:"audience,omitempty"`     // Target learner audience

	// Limits
	MaxRecommendations int `json:"max_recommendations,omitempty"` // Maximum strategies to recommend
	MaxModules         int `json:"max_modules,omitempty"`         // Maximum modules in the outline

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA sites
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	OutputDir   string `json:"output_dir,omitempty"`   // Directory for rendered outputs
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	sourceKinds := 0
	if len(c.Sources) > 0 {
		sourceKinds++
	}
	if c.SourceDir != "" {
		sourceKinds++
	}
	if c.SourceURL != "" {
		sourceKinds++
	}
	if sourceKinds > 1 {
		return fmt.Errorf("config error: 'sources', 'source_dir' and 'source_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.MaxRecommendations < 0 {
		return fmt.Errorf("config error: 'max_recommendations' must be non-negative")
	}
	if c.MaxModules < 0 {
		return fmt.Errorf("config error: 'max_modules' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	if c.Answers != "" {
		if _, err := os.Stat(c.Answers); os.IsNotExist(err) {
			return fmt.Errorf("config error: answers file not found: %s", c.Answers)
		}
	}

	for _, src := range c.Sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return fmt.Errorf("config error: source file not found: %s", src)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if len(result.Sources) == 0 {
		result.Sources = defaults.Sources
	}
	if result.SourceDir == "" {
		result.SourceDir = defaults.SourceDir
	}
	if result.SourceURL == "" {
		result.SourceURL = defaults.SourceURL
	}
	if result.Answers == "" {
		result.Answers = defaults.Answers
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.CourseTitle == "" {
		result.CourseTitle = defaults.CourseTitle
	}
	if result.Audience == "" {
		result.Audience = defaults.Audience
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.MaxRecommendations == 0 {
		result.MaxRecommendations = defaults.MaxRecommendations
	}
	if result.MaxModules == 0 {
		result.MaxModules = defaults.MaxModules
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
