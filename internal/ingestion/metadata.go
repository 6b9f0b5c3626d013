package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document formats recognised by ReadDocument.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Metadata describes an ingested document.
type Metadata struct {
	Source    string `json:"source,omitempty"` // Path the document was read from
	Format    string `json:"format"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the cleaned text
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content, source, format string) *Metadata {
	return &Metadata{
		Source:    source,
		Format:    format,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(content),
	}
}

// ComputeHash computes SHA256 hash of content and returns hex string
func ComputeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
