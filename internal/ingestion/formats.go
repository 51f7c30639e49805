package ingestion

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Format identifies the on-disk format of a source document.
type Format string

// Supported source document formats
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatDocx     Format = "docx"
	FormatUnknown  Format = "unknown"
)

// DetectFormat identifies the document format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return FormatText
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm":
		return FormatHTML
	case ".docx":
		return FormatDocx
	default:
		return FormatUnknown
	}
}

// ExtractText reads a source file and returns its raw text and a best-effort
// title. Plain text and markdown pass through unchanged, HTML is reduced to
// its body text, and DOCX archives are unpacked to paragraph text. Unknown
// extensions are read as plain text.
func ExtractText(path string) (string, string, error) {
	switch DetectFormat(path) {
	case FormatHTML:
		return extractHTMLFile(path)
	case FormatDocx:
		return extractDocxFile(path)
	case FormatMarkdown:
		content, err := readSourceFile(path)
		if err != nil {
			return "", "", err
		}
		return content, markdownTitle(content, path), nil
	default:
		content, err := readSourceFile(path)
		if err != nil {
			return "", "", err
		}
		return content, titleFromFilename(path), nil
	}
}

func readSourceFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}

// extractHTMLFile parses a local HTML document and returns its body text
// with chrome elements stripped.
func extractHTMLFile(path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("file not found: %w", err)
		}
		return "", "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = titleFromFilename(path)
	}

	doc.Find("script, style, noscript, nav, footer, header").Remove()

	body := doc.Find("body")
	text := body.Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	return text, title, nil
}

// extractDocxFile unpacks a DOCX archive and returns its paragraph text.
// The title comes from docProps/core.xml when present, otherwise from the
// filename.
func extractDocxFile(path string) (string, string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("file not found: %w", err)
		}
		return "", "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	text, err := docxDocumentText(&reader.Reader)
	if err != nil {
		return "", "", err
	}

	title := docxTitle(&reader.Reader)
	if title == "" {
		title = titleFromFilename(path)
	}

	return text, title, nil
}

// docxDocumentText extracts paragraph text from word/document.xml.
func docxDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}

		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read document.xml: %w", err)
		}

		return parseDocxXML(content), nil
	}
	return "", fmt.Errorf("docx archive has no word/document.xml")
}

// docxDocument mirrors the parts of word/document.xml we care about.
type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

// parseDocxXML joins paragraph runs into newline-separated text.
func parseDocxXML(content []byte) string {
	var doc docxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var sb strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				sb.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(sb.String())
}

// docxCoreProps mirrors the title field of docProps/core.xml.
type docxCoreProps struct {
	Title string `xml:"title"`
}

// docxTitle reads the document title from docProps/core.xml, if present.
func docxTitle(reader *zip.Reader) string {
	for _, file := range reader.File {
		if file.Name != "docProps/core.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return ""
		}

		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return ""
		}

		var core docxCoreProps
		if err := xml.Unmarshal(content, &core); err == nil {
			return strings.TrimSpace(core.Title)
		}
		return ""
	}
	return ""
}

// markdownTitle returns the first level-one heading, falling back to the filename.
func markdownTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return titleFromFilename(path)
}

// titleFromFilename derives a readable title from the file name.
func titleFromFilename(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
