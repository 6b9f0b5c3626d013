package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeHash(t *testing.T) {
	hash1 := ComputeHash("test content")
	hash2 := ComputeHash("different content")

	// Hash should be 64 hex characters (SHA256)
	assert.Len(t, hash1, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, ComputeHash("test content"))
}

func TestNewMetadata(t *testing.T) {
	metadata := NewMetadata("test content", "job.html", FormatHTML)

	assert.Equal(t, "job.html", metadata.Source)
	assert.Equal(t, FormatHTML, metadata.Format)
	assert.Equal(t, ComputeHash("test content"), metadata.Hash)

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}
