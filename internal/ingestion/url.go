package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/marcus/course-designer/internal/fetch"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = fmt.Errorf("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// IngestFromURL fetches reference material from a URL, extracts the main text,
// cleans it, and returns cleaned text with metadata. Platform detection picks
// content selectors suited to known documentation hosts. If useBrowser is true,
// falls back to headless rendering when the static HTML carries too little
// content. If verbose is true, logs detailed information about the extraction.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	// Detect platform for platform-specific selectors
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	// Fetch HTML using the generic fetch package
	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	// Get platform-specific selectors
	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)
	if verbose {
		log.Printf("[VERBOSE] Content selectors: %v", contentSelectors)
		log.Printf("[VERBOSE] Noise selectors count: %d", len(noiseSelectors))
	}

	// Extract text from HTML using platform-specific selectors and noise removal
	textContent, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(textContent))
	}

	// Check if we should use browser fallback for SPA sites
	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				len(textContent), fetch.MinContentLength)
		}

		// Fetch with headless browser
		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
			// Continue with HTTP content if browser fails
		} else {
			// Re-extract from browser-rendered HTML
			textContent, err = fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...)
			if err != nil {
				if verbose {
					log.Printf("[VERBOSE] Browser content extraction failed: %v", err)
				}
			} else if verbose {
				log.Printf("[VERBOSE] Browser extracted text: %d chars", len(textContent))
			}
		}
	}

	// Clean text
	cleanedText := CleanText(textContent)
	if verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(cleanedText))
	}

	// Extract links so related material can be pulled in later
	links, _ := fetch.ExtractLinks(result.HTML)

	// Generate metadata
	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Format = string(FormatHTML)
	metadata.Platform = string(platform)
	metadata.ExtractedLinks = links

	return cleanedText, metadata, nil
}
