package ingestion

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Document is a single source file after cleaning.
type Document struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text"`
	Hash   string `json:"hash"`
}

// SourceSet holds all documents ingested for one design run.
type SourceSet struct {
	Documents []Document `json:"documents"`
}

// FileCount returns the number of ingested documents.
func (s *SourceSet) FileCount() int {
	if s == nil {
		return 0
	}
	return len(s.Documents)
}

// Titles returns the document titles in ingestion order.
func (s *SourceSet) Titles() []string {
	if s == nil {
		return nil
	}
	titles := make([]string, 0, len(s.Documents))
	for _, doc := range s.Documents {
		if doc.Title != "" {
			titles = append(titles, doc.Title)
		}
	}
	return titles
}

// CombinedText joins all document texts into one body for analysis.
// Each document is introduced by its title so topic extraction keeps
// the per-document context.
func (s *SourceSet) CombinedText() string {
	if s == nil || len(s.Documents) == 0 {
		return ""
	}
	if len(s.Documents) == 1 {
		return s.Documents[0].Text
	}

	var sb strings.Builder
	for i, doc := range s.Documents {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		label := doc.Title
		if label == "" {
			label = filepath.Base(doc.Path)
		}
		sb.WriteString("## " + label + "\n\n")
		sb.WriteString(doc.Text)
	}
	return sb.String()
}

// Metadata builds aggregate metadata for the combined content.
func (s *SourceSet) Metadata() *Metadata {
	combined := s.CombinedText()
	source := ""
	if s != nil && len(s.Documents) == 1 {
		source = s.Documents[0].Path
	}
	meta := NewMetadata(combined, source)
	meta.FileCount = s.FileCount()
	if s != nil && len(s.Documents) == 1 {
		meta.Format = s.Documents[0].Format
		meta.Title = s.Documents[0].Title
	}
	return meta
}

// FromCleanedText wraps already-cleaned content, such as a fetched URL body,
// into a single-document set.
func FromCleanedText(cleaned string, meta *Metadata) *SourceSet {
	doc := Document{
		Format: "url",
		Text:   cleaned,
		Hash:   computeHash(cleaned),
	}
	if meta != nil {
		doc.Path = meta.Source
		doc.Title = meta.Title
		if meta.Format != "" {
			doc.Format = meta.Format
		}
	}
	return &SourceSet{Documents: []Document{doc}}
}

// IngestPaths ingests each path in order and returns the resulting set.
// Paths keep their caller-supplied order so the output is deterministic.
func IngestPaths(paths []string) (*SourceSet, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source files provided")
	}

	set := &SourceSet{Documents: make([]Document, 0, len(paths))}
	for _, path := range paths {
		text, title, err := ExtractText(path)
		if err != nil {
			return nil, fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		cleaned := CleanText(text)
		set.Documents = append(set.Documents, Document{
			Path:   path,
			Format: string(DetectFormat(path)),
			Title:  title,
			Text:   cleaned,
			Hash:   computeHash(cleaned),
		})
	}
	return set, nil
}

// IngestDir walks a directory tree and ingests every supported file in it,
// sorted by path for deterministic output.
func IngestDir(dir string) (*SourceSet, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if DetectFormat(path) == FormatUnknown {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no supported source files found in %s", dir)
	}

	sort.Strings(paths)
	return IngestPaths(paths)
}
