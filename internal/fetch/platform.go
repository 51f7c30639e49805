// Package fetch - platform.go provides platform detection and platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known content hosting platform.
type Platform string

const (
	// PlatformConfluence is the Atlassian Confluence wiki platform
	PlatformConfluence Platform = "confluence"
	// PlatformNotion is the Notion workspace platform
	PlatformNotion Platform = "notion"
	// PlatformSharePoint is the Microsoft SharePoint platform
	PlatformSharePoint Platform = "sharepoint"
	// PlatformGoogleDocs is the Google Docs platform
	PlatformGoogleDocs Platform = "google_docs"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the content hosting platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	path := strings.ToLower(parsed.Path)

	// Confluence patterns
	if strings.Contains(host, "atlassian.net") ||
		strings.Contains(host, "confluence") ||
		strings.Contains(path, "/wiki/") {
		return PlatformConfluence
	}

	// Notion patterns
	if strings.Contains(host, "notion.so") ||
		strings.Contains(host, "notion.site") {
		return PlatformNotion
	}

	// SharePoint patterns
	if strings.Contains(host, "sharepoint.com") ||
		strings.Contains(host, "sharepoint") {
		return PlatformSharePoint
	}

	// Google Docs patterns
	if strings.Contains(host, "docs.google.com") {
		return PlatformGoogleDocs
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformConfluence:
		return []string{
			"#main-content",          // Primary Confluence selector
			".wiki-content",          // Classic wiki body
			"#content .page-content", // Alternative
			"#content",               // Generic fallback
			".ak-renderer-document",  // Cloud renderer
		}
	case PlatformNotion:
		return []string{
			".notion-page-content",
			"main",
			".whenContentEditable",
			".content",
		}
	case PlatformSharePoint:
		return []string{
			"[data-automation-id='contentScrollRegion']",
			".ms-rtestate-field",
			".CanvasComponent",
			"main",
		}
	case PlatformGoogleDocs:
		return []string{
			".kix-appview-editor",
			".doc-content",
			"main",
		}
	default:
		return DocumentationSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		// Comments and reactions
		"#comments-section",
		".comments-section",
		".comment-thread",
		".reactions",
		"[data-testid='comments']",

		// Page chrome
		".breadcrumbs",
		".breadcrumb",
		".page-tree",
		".space-sidebar",
		".table-of-contents-macro",

		// Sharing and editing controls
		".share-buttons",
		".social-share",
		".edit-button",
		".page-actions",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",

		// Generic navigation already handled in fetch.go
	}

	// Platform-specific noise selectors
	switch platform {
	case PlatformConfluence:
		return append(common,
			"#likes-and-labels-container",
			".page-metadata",
			".pageSectionHeader",
			"#space-tools-web-items",
			".aui-sidebar",
		)
	case PlatformNotion:
		return append(common,
			".notion-topbar",
			".notion-sidebar",
			".notion-overlay-container",
		)
	case PlatformSharePoint:
		return append(common,
			"[data-automation-id='pageHeader']",
			"[data-automation-id='pageFooter']",
			".commandBarWrapper",
			".od-TopBar",
		)
	default:
		return common
	}
}
