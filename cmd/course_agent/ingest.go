package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcus/course-designer/internal/ingestion"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest source documents from files, a directory, or a URL",
	Long:  "Ingest course source documents (text, Markdown, HTML, DOCX), clean the content, and output combined cleaned text with metadata.",
	RunE:  runIngest,
}

var (
	ingestFiles      []string
	ingestDir        string
	ingestURL        string
	ingestOut        string
	ingestUseBrowser bool
	ingestVerbose    bool
)

func init() {
	ingestCmd.Flags().StringSliceVarP(&ingestFiles, "file", "f", nil, "Path to a source document (repeatable)")
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "Directory of source documents")
	ingestCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch source content from")
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Output directory (required)")
	ingestCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := ingestCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Validate mutually exclusive flags
	provided := 0
	if len(ingestFiles) > 0 {
		provided++
	}
	if ingestDir != "" {
		provided++
	}
	if ingestURL != "" {
		provided++
	}
	if provided == 0 {
		return fmt.Errorf("one of --file, --dir or --url must be provided")
	}
	if provided > 1 {
		return fmt.Errorf("--file, --dir and --url are mutually exclusive; provide only one")
	}

	var sources *ingestion.SourceSet
	var err error

	switch {
	case ingestURL != "":
		var cleaned string
		var metadata *ingestion.Metadata
		cleaned, metadata, err = ingestion.IngestFromURL(context.Background(), ingestURL, ingestUseBrowser, ingestVerbose)
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
		sources = ingestion.FromCleanedText(cleaned, metadata)
	case ingestDir != "":
		sources, err = ingestion.IngestDir(ingestDir)
		if err != nil {
			return fmt.Errorf("failed to ingest directory: %w", err)
		}
	default:
		sources, err = ingestion.IngestPaths(ingestFiles)
		if err != nil {
			return fmt.Errorf("failed to ingest files: %w", err)
		}
	}

	// Write combined cleaned text and aggregate metadata
	if err := ingestion.WriteOutput(ingestOut, sources.CombinedText(), sources.Metadata()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Also write the per-document set for downstream fan-out analysis
	setJSON, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal source set: %w", err)
	}
	setPath := filepath.Join(ingestOut, "source_set.json")
	if err := os.WriteFile(setPath, setJSON, 0644); err != nil {
		return fmt.Errorf("failed to write source set: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Successfully ingested %d source document(s)\n", sources.FileCount())
	fmt.Fprintf(os.Stdout, "Cleaned text: %s/source_content.cleaned.txt\n", ingestOut)
	fmt.Fprintf(os.Stdout, "Metadata: %s/source_content.meta.json\n", ingestOut)
	fmt.Fprintf(os.Stdout, "Source set: %s\n", setPath)

	return nil
}
