package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata contains metadata about an ingested source document
type Metadata struct {
	Source         string   `json:"source,omitempty"`          // File path or URL the content came from
	Format         string   `json:"format,omitempty"`          // Detected document format
	Title          string   `json:"title,omitempty"`           // Document title when one was detected
	Timestamp      string   `json:"timestamp"`                 // RFC3339 format
	Hash           string   `json:"hash"`                      // SHA256 hex digest
	Platform       string   `json:"platform,omitempty"`        // Detected hosting platform for URL sources
	FileCount      int      `json:"file_count,omitempty"`      // Number of documents merged into this content
	ExtractedLinks []string `json:"extracted_links,omitempty"` // Links found in the source document
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, source string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	// Use standard encoding/json but format nicely
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
