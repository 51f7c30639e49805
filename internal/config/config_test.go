package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"sources": ["manual.txt"],
		"course_title": "Machine Safety",
		"max_recommendations": 3,
		"verbose": true,
		"database_url": "postgres://localhost/courses"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"manual.txt"}, cfg.Sources)
	assert.Equal(t, "Machine Safety", cfg.CourseTitle)
	assert.Equal(t, 3, cfg.MaxRecommendations)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "postgres://localhost/courses", cfg.DatabaseURL)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.json")
	assert.Error(t, err)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MutuallyExclusive(t *testing.T) {
	cfg := &Config{
		Sources:   []string{"a.txt"},
		SourceURL: "https://example.com/guide",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_NegativeValues(t *testing.T) {
	assert.Error(t, (&Config{MaxRecommendations: -1}).Validate())
	assert.Error(t, (&Config{MaxModules: -2}).Validate())
}

func TestValidate_MissingSourceFile(t *testing.T) {
	cfg := &Config{Sources: []string{"/nonexistent/manual.txt"}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source file not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "manual.txt")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0644))

	cfg := &Config{
		Sources:            []string{src},
		MaxRecommendations: 5,
		MaxModules:         6,
	}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		CourseTitle: "From Flags",
		Verbose:     true,
	}
	defaults := Config{
		Sources:            []string{"default.txt"},
		CourseTitle:        "From Config",
		OutputDir:          "out",
		MaxRecommendations: 5,
		DatabaseURL:        "postgres://localhost/courses",
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win, empty ones fill from defaults.
	assert.Equal(t, "From Flags", merged.CourseTitle)
	assert.Equal(t, []string{"default.txt"}, merged.Sources)
	assert.Equal(t, "out", merged.OutputDir)
	assert.Equal(t, 5, merged.MaxRecommendations)
	assert.Equal(t, "postgres://localhost/courses", merged.DatabaseURL)
	assert.True(t, merged.Verbose)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{CourseTitle: "Kept"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "Kept", merged.CourseTitle)
	assert.Empty(t, merged.Sources)
}
